// Package order parses free-form order text into demands.
package order

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

// ErrNoDemands is returned when no line of an order holds a valid demand.
var ErrNoDemands = errors.New("no product with a valid quantity")

// linePattern matches "Product name: 12" at the start of a line.
var linePattern = regexp.MustCompile(`^([^:]+):\s*(\d+)`)

// ParseDemands reads one "name: quantity" pair per line. Lines that do not
// match, or whose quantity is not a positive integer, are skipped.
func ParseDemands(text string) ([]crafting.Demand, error) {
	var demands []crafting.Demand
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty <= 0 || name == "" {
			continue
		}
		demands = append(demands, crafting.Demand{Item: name, Quantity: float64(qty)})
	}
	if len(demands) == 0 {
		return nil, ErrNoDemands
	}
	return demands, nil
}

// Roots returns the distinct items of demands in order.
func Roots(demands []crafting.Demand) []string {
	seen := make(map[string]bool, len(demands))
	var roots []string
	for _, d := range demands {
		if seen[d.Item] {
			continue
		}
		seen[d.Item] = true
		roots = append(roots, d.Item)
	}
	return roots
}
