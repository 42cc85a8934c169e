// Package render turns batch plans and order totals into chat-ready text.
package render

import (
	"embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tyler-sommer/stick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

//go:embed templates/*.twig
var templateFS embed.FS

const (
	// MaxFieldLength is the longest text a single field may carry.
	MaxFieldLength = 1024
	// SplitLength is the chunk size used when a field is too long.
	SplitLength = 1018
	// MaxBlocks caps how many batch blocks are rendered per plan.
	MaxBlocks = 25
)

// Renderer renders batch plans with stick templates.
type Renderer struct {
	env       *stick.Env
	templates map[string]string
	lang      language.Tag
}

// New creates a Renderer with the embedded templates loaded.
func New() (*Renderer, error) {
	r := &Renderer{
		env:       stick.New(nil),
		templates: make(map[string]string),
		lang:      language.BrazilianPortuguese,
	}
	for _, name := range []string{"batch", "materials"} {
		content, err := templateFS.ReadFile("templates/" + name + ".twig")
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		r.templates[name] = string(content)
	}
	return r, nil
}

func (r *Renderer) execute(name string, ctx map[string]stick.Value) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	var out strings.Builder
	if err := r.env.Execute(tpl, &out, ctx); err != nil {
		return "", fmt.Errorf("execute %q: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}

// Title returns the block title for item.
func (r *Renderer) Title(item string) string {
	return "➡️ " + cases.Upper(r.lang).String(item)
}

// Batch renders the instruction text for one item.
func (r *Renderer) Batch(inst crafting.BatchInstruction) (string, error) {
	ctx := map[string]stick.Value{
		"needed":        FormatQuantity(inst.Needed),
		"to_produce":    FormatQuantity(inst.ToProduce),
		"has_full":      inst.Full != nil,
		"has_remainder": inst.Remainder != nil,
	}
	if inst.Full != nil {
		ctx["full"] = batchContext(inst.Full)
	}
	if inst.Remainder != nil {
		ctx["remainder"] = batchContext(inst.Remainder)
	}
	return r.execute("batch", ctx)
}

func batchContext(b *crafting.Batch) map[string]any {
	materials := make([]map[string]string, len(b.Materials))
	for i, m := range b.Materials {
		materials[i] = map[string]string{"name": m.Name, "quantity": FormatQuantity(m.Quantity)}
	}
	return map[string]any{
		"repeat":    strconv.Itoa(b.Repeat),
		"crafts":    strconv.Itoa(b.Crafts),
		"produces":  FormatQuantity(b.Produces),
		"materials": materials,
	}
}

// BatchBlocks renders one titled block per instruction. Only the first
// MaxBlocks instructions are rendered; truncated reports whether any were
// dropped. Blocks longer than MaxFieldLength are split into continuation
// blocks.
func (r *Renderer) BatchBlocks(instructions []crafting.BatchInstruction) (blocks []crafting.TextBlock, truncated bool, err error) {
	if len(instructions) > MaxBlocks {
		instructions = instructions[:MaxBlocks]
		truncated = true
	}
	for _, inst := range instructions {
		text, err := r.Batch(inst)
		if err != nil {
			return nil, false, fmt.Errorf("rendering %s: %w", inst.Item, err)
		}
		blocks = append(blocks, Fields(r.Title(inst.Item), text)...)
	}
	return blocks, truncated, nil
}

// Materials renders a material listing, one line per item, quantities
// truncated to whole units.
func (r *Renderer) Materials(lines []crafting.QuantityLine) (string, error) {
	materials := make([]map[string]string, len(lines))
	for i, l := range lines {
		materials[i] = map[string]string{
			"name":     l.Item,
			"quantity": strconv.FormatFloat(math.Trunc(l.Quantity), 'f', -1, 64),
		}
	}
	return r.execute("materials", map[string]stick.Value{"materials": materials})
}

// Fields returns text as one block, or as several when it is longer than
// MaxFieldLength. Continuation blocks get a "(cont.)" suffix.
func Fields(title, text string) []crafting.TextBlock {
	if utf8.RuneCountInString(text) <= MaxFieldLength {
		return []crafting.TextBlock{{Title: title, Text: text}}
	}
	parts := Split(text, SplitLength)
	blocks := make([]crafting.TextBlock, len(parts))
	for i, p := range parts {
		t := title
		if i > 0 {
			t += " (cont.)"
		}
		blocks[i] = crafting.TextBlock{Title: t, Text: p}
	}
	return blocks
}

// Split breaks text at line boundaries into chunks of at most limit runes.
// A single line longer than limit is kept whole.
func Split(text string, limit int) []string {
	var (
		parts   []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if s := strings.TrimRight(current.String(), " \t\r\n"); s != "" {
			parts = append(parts, s)
		}
		current.Reset()
		size = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return parts
}

// FormatQuantity prints v without trailing zeros.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
