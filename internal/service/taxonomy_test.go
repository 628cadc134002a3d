package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Pollo", "pollo"},
		{"Brócoli", "brocoli"},
		{"Atún en aceite", "atunenaceite"},
		{"  Pechuga de pollo  ", "pechugadepollo"},
		{"CHAMPIÑÓN", "champinon"},
		{"100 g de avena", "100gdeavena"},
		{"¡¿---!?", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), tc.in)
	}
}

func TestTaxonomy_CategoryOf(t *testing.T) {
	tax := DefaultTaxonomy()

	t.Run("matches taxonomy entries as substrings", func(t *testing.T) {
		cat, ok := tax.CategoryOf("Pechuga de pollo a la plancha")
		assert.True(t, ok)
		assert.Equal(t, "proteinas", cat)
	})

	t.Run("match is one-directional", func(t *testing.T) {
		// The taxonomy entry must appear inside the ingredient name, not
		// the other way around.
		_, ok := tax.CategoryOf("pol")
		assert.False(t, ok)
	})

	t.Run("most specific entry wins and the result is stable", func(t *testing.T) {
		// "judías verdes" contains both the proteinas entry "judias" and
		// the verduras entry "judias verdes"; the longer entry decides,
		// on every call.
		for i := 0; i < 100; i++ {
			cat, ok := tax.CategoryOf("judías verdes")
			assert.True(t, ok)
			assert.Equal(t, "verduras", cat)
		}
	})

	t.Run("unknown ingredients have no category", func(t *testing.T) {
		_, ok := tax.CategoryOf("gominolas")
		assert.False(t, ok)
	})

	t.Run("empty name has no category", func(t *testing.T) {
		_, ok := tax.CategoryOf("???")
		assert.False(t, ok)
	})
}

func TestTimingGroup(t *testing.T) {
	assert.Equal(t, "pre_entreno", TimingGroup("pre_entreno"))
	assert.Equal(t, "post_entreno", TimingGroup("post_entreno"))
	for _, meal := range []string{"desayuno", "almuerzo", "cena", "comida_principal"} {
		assert.Equal(t, "comida_principal", TimingGroup(meal), meal)
	}
	assert.Equal(t, "snack_complemento", TimingGroup("snack"))
	assert.Equal(t, "", TimingGroup("merienda"))
	assert.Equal(t, "", TimingGroup(""))
}

func TestNutrientBand_Contains(t *testing.T) {
	band := NutrientBand{Min: 10, Max: 20}
	assert.True(t, band.Contains(10))
	assert.True(t, band.Contains(20))
	assert.False(t, band.Contains(9.99))
	assert.False(t, band.Contains(20.01))
}
