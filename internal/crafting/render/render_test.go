package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/crafting-orders-server/pkg/crafting"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 5,00"},
		{1234.5, "R$ 1.234,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{999.999, "R$ 1.000,00"},
		{-42.1, "R$ -42,10"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.in))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "6", FormatQuantity(6))
	assert.Equal(t, "2.5", FormatQuantity(2.5))
}

func TestSplit(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"a\nb"}, Split("a\nb\n", 10))
	})

	t.Run("breaks on line boundaries", func(t *testing.T) {
		text := "aaaa\nbbbb\ncccc\n"
		parts := Split(text, 10)
		assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		text := "ééé\nééé\n"
		assert.Equal(t, []string{"ééé\nééé"}, Split(text, 8))
	})

	t.Run("oversized line kept whole", func(t *testing.T) {
		long := strings.Repeat("x", 20)
		assert.Equal(t, []string{long, "y"}, Split(long+"\ny", 10))
	})
}

func TestFields(t *testing.T) {
	short := Fields("T", "hello")
	require.Len(t, short, 1)
	assert.Equal(t, "T", short[0].Title)

	line := strings.Repeat("z", 99) + "\n"
	long := Fields("T", strings.Repeat(line, 20))
	require.Len(t, long, 2)
	assert.Equal(t, "T", long[0].Title)
	assert.Equal(t, "T (cont.)", long[1].Title)
	for _, b := range long {
		assert.LessOrEqual(t, len(b.Text), SplitLength)
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestTitle(t *testing.T) {
	r := newRenderer(t)
	assert.Equal(t, "➡️ BARRA DE MINÉRIO", r.Title("Barra de Minério"))
}

func TestBatch(t *testing.T) {
	r := newRenderer(t)

	t.Run("full batches only", func(t *testing.T) {
		text, err := r.Batch(crafting.BatchInstruction{
			Item: "Ingot", Needed: 6, ToProduce: 6, Yield: 1, TotalCrafts: 6, MaxCraftsPerBatch: 2,
			Full: &crafting.Batch{Repeat: 3, Crafts: 2, Produces: 2, Materials: []crafting.Material{{Name: "Ore", Quantity: 4}}},
		})
		require.NoError(t, err)

		want := "Precisa: 6 | Total a produzir: 6\n\n" +
			"📋 Instruções de Lote (Repetir 3 vezes):\n" +
			"   - Fabricar: 2 (de 2 fabricações)\n" +
			"   - Materiais (para cada lote):\n" +
			"      - Ore: 4"
		assert.Equal(t, want, text)
	})

	t.Run("full and remainder", func(t *testing.T) {
		text, err := r.Batch(crafting.BatchInstruction{
			Item: "Ingot", Needed: 7, ToProduce: 7, Yield: 1, TotalCrafts: 7, MaxCraftsPerBatch: 2,
			Full:      &crafting.Batch{Repeat: 3, Crafts: 2, Produces: 2, Materials: []crafting.Material{{Name: "Ore", Quantity: 4}}},
			Remainder: &crafting.Batch{Repeat: 1, Crafts: 1, Produces: 1, Materials: []crafting.Material{{Name: "Ore", Quantity: 2}}},
		})
		require.NoError(t, err)

		assert.Contains(t, text, "      - Ore: 4\n\n📋 Instruções do Lote Final (1 vez):\n")
		assert.Contains(t, text, "   - Fabricar: 1 (de 1 fabricações)\n   - Materiais:\n      - Ore: 2")
	})

	t.Run("fractional material quantities", func(t *testing.T) {
		text, err := r.Batch(crafting.BatchInstruction{
			Item: "Gear", Needed: 1, ToProduce: 2, Yield: 2, TotalCrafts: 1, MaxCraftsPerBatch: 1,
			Full: &crafting.Batch{Repeat: 1, Crafts: 1, Produces: 2, Materials: []crafting.Material{{Name: "Ingot", Quantity: 2.5}}},
		})
		require.NoError(t, err)
		assert.Contains(t, text, "Precisa: 1 | Total a produzir: 2")
		assert.Contains(t, text, "      - Ingot: 2.5")
		assert.NotContains(t, text, "Lote Final")
	})
}

func TestBatchBlocks(t *testing.T) {
	r := newRenderer(t)

	var instructions []crafting.BatchInstruction
	for i := 0; i < MaxBlocks+3; i++ {
		instructions = append(instructions, crafting.BatchInstruction{
			Item: "Ingot", Needed: 1, ToProduce: 1, Yield: 1, TotalCrafts: 1, MaxCraftsPerBatch: 1,
			Full: &crafting.Batch{Repeat: 1, Crafts: 1, Produces: 1},
		})
	}

	blocks, truncated, err := r.BatchBlocks(instructions)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, blocks, MaxBlocks)
	assert.Equal(t, "➡️ INGOT", blocks[0].Title)

	blocks, truncated, err = r.BatchBlocks(instructions[:2])
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Len(t, blocks, 2)
}

func TestMaterials(t *testing.T) {
	r := newRenderer(t)
	text, err := r.Materials([]crafting.QuantityLine{
		{Item: "Ore", Quantity: 12},
		{Item: "Coal", Quantity: 2.7},
	})
	require.NoError(t, err)
	assert.Equal(t, "🔹 Ore: 12\n🔹 Coal: 2", text)
}
