package crafting

import "sort"

// Tally accumulates quantities per item and remembers the order in which
// items were first added. The zero value is ready to use. A Tally has a single
// writer; it is not safe for concurrent use.
type Tally struct {
	order []string
	qty   map[string]float64
}

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{qty: make(map[string]float64)}
}

// Add adds n to item's quantity.
func (t *Tally) Add(item string, n float64) {
	if t.qty == nil {
		t.qty = make(map[string]float64)
	}
	if _, seen := t.qty[item]; !seen {
		t.order = append(t.order, item)
	}
	t.qty[item] += n
}

// Get returns the quantity recorded for item.
func (t *Tally) Get(item string) float64 {
	if t == nil {
		return 0
	}
	return t.qty[item]
}

// Has reports whether item was ever added.
func (t *Tally) Has(item string) bool {
	if t == nil {
		return false
	}
	_, ok := t.qty[item]
	return ok
}

// Len returns the number of distinct items.
func (t *Tally) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Items returns item names in first-seen order.
func (t *Tally) Items() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Merge adds every entry of other into t, keeping t's order for known items
// and appending new ones in other's order.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	for _, item := range other.order {
		t.Add(item, other.qty[item])
	}
}

// Map returns a copy of the quantities as a plain map.
func (t *Tally) Map() map[string]float64 {
	m := make(map[string]float64, t.Len())
	if t == nil {
		return m
	}
	for k, v := range t.qty {
		m[k] = v
	}
	return m
}

// Lines returns the entries in first-seen order.
func (t *Tally) Lines() []QuantityLine {
	lines := make([]QuantityLine, 0, t.Len())
	if t == nil {
		return lines
	}
	for _, item := range t.order {
		lines = append(lines, QuantityLine{Item: item, Quantity: t.qty[item]})
	}
	return lines
}

// TallyFromMap builds a Tally from m with keys in lexical order.
func TallyFromMap(m map[string]float64) *Tally {
	t := NewTally()
	for _, k := range sortedKeys(m) {
		t.Add(k, m[k])
	}
	return t
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
