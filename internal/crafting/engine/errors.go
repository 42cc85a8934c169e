package engine

import (
	"errors"
	"strings"
)

var (
	// ErrCyclicRecipe is returned when a recipe reaches itself through its materials.
	ErrCyclicRecipe = errors.New("cyclic recipe")

	// ErrRecipeTooDeep is returned when a recipe tree exceeds the depth limit.
	ErrRecipeTooDeep = errors.New("recipe tree too deep")

	// ErrInvalidCapacity is returned for a non-positive batch capacity.
	ErrInvalidCapacity = errors.New("batch capacity must be positive")

	// ErrTooManyCrafts is returned when an item needs more crafts than a plan can count.
	ErrTooManyCrafts = errors.New("too many crafts")

	// ErrUnknownItem is returned by lookups for items with neither recipe nor price.
	ErrUnknownItem = errors.New("unknown item")

	// ErrCatalogNotLoaded is returned by Engine queries before a catalog is set.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// CycleError reports the chain of items that forms a recipe cycle.
// The first and last entries of Chain are the same item.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Chain, " -> ")
}

// Is makes errors.Is(err, ErrCyclicRecipe) match.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicRecipe
}

func newCycleError(path []string, item string) *CycleError {
	start := 0
	for i, p := range path {
		if p == item {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(path)-start+1)
	chain = append(chain, path[start:]...)
	chain = append(chain, item)
	return &CycleError{Chain: chain}
}
