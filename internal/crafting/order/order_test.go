package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

func TestParseDemands(t *testing.T) {
	t.Run("parses valid lines", func(t *testing.T) {
		demands, err := ParseDemands("Espada: 3\n  Escudo de Ferro :10\n")
		require.NoError(t, err)
		assert.Equal(t, []crafting.Demand{
			{Item: "Espada", Quantity: 3},
			{Item: "Escudo de Ferro", Quantity: 10},
		}, demands)
	})

	t.Run("skips malformed and non-positive lines", func(t *testing.T) {
		demands, err := ParseDemands("Espada: 0\nsem quantidade\nArco: abc\nFlecha: 25 unidades\n: 4")
		require.NoError(t, err)
		assert.Equal(t, []crafting.Demand{{Item: "Flecha", Quantity: 25}}, demands)
	})

	t.Run("no valid lines", func(t *testing.T) {
		_, err := ParseDemands("nada aqui\nEspada: -2")
		assert.ErrorIs(t, err, ErrNoDemands)
	})
}

func TestRoots(t *testing.T) {
	roots := Roots([]crafting.Demand{
		{Item: "B", Quantity: 1},
		{Item: "A", Quantity: 1},
		{Item: "B", Quantity: 2},
	})
	assert.Equal(t, []string{"B", "A"}, roots)
}
