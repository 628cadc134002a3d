package service

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Bonus rule kinds for timing-specific scoring.
const (
	BonusNone           = ""
	BonusFiberAtMost    = "fiber_at_most"
	BonusFiberAtLeast   = "fiber_at_least"
	BonusProteinAtLeast = "protein_at_least"
)

// NutrientBand is an inclusive [Min, Max] range.
type NutrientBand struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the band.
func (b NutrientBand) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// TimingCriteria are the nutrition targets for one timing group. Percent
// bands are percent-of-declared-calories; Calories is absolute kcal.
type TimingCriteria struct {
	Calories   NutrientBand
	ProteinPct NutrientBand
	CarbsPct   NutrientBand
	FatPct     NutrientBand
	BonusRule  string
	BonusGrams float64
}

// Taxonomy bundles every lookup table the validator and learner consult.
// Instances are treated as immutable after construction; tests build their
// own fixtures instead of patching the default tables.
type Taxonomy struct {
	// NaturalCategories maps a category name to the natural ingredient
	// names it covers. Matching is substring-contains over normalized names.
	NaturalCategories map[string][]string

	// Forbidden lists processed/forbidden ingredient names. Each match costs
	// a flat penalty in the ingredients sub-score.
	Forbidden []string

	// MethodKeywords maps each cooking method to the keywords that signal it
	// in a recipe's name or preparation steps.
	MethodKeywords map[string][]string

	// MethodOrder fixes the evaluation order for method inference; the first
	// method with a keyword hit wins.
	MethodOrder []string

	// DefaultMethod is used when no method keyword matches.
	DefaultMethod string

	// TimingCriteria maps a timing group to its nutrition targets.
	TimingCriteria map[string]TimingCriteria

	// ingredient -> category, derived from NaturalCategories, plus the
	// match order: longest normalized entry first so the most specific
	// entry wins ("judias verdes" before "judias"), ties alphabetical.
	categoryOf map[string]string
	entries    []string
}

// CategoryOf returns the natural category for a normalized ingredient name,
// using the same substring semantics as validation. The second return is
// false when the ingredient is not in the taxonomy.
func (t *Taxonomy) CategoryOf(name string) (string, bool) {
	n := NormalizeName(name)
	if n == "" {
		return "", false
	}
	for _, entry := range t.entries {
		if strings.Contains(n, entry) {
			return t.categoryOf[entry], true
		}
	}
	return "", false
}

// buildIndex precomputes the normalized ingredient -> category lookup and
// its deterministic match order.
func (t *Taxonomy) buildIndex() {
	t.categoryOf = make(map[string]string)
	for cat, names := range t.NaturalCategories {
		for _, name := range names {
			t.categoryOf[NormalizeName(name)] = cat
		}
	}
	t.entries = make([]string, 0, len(t.categoryOf))
	for entry := range t.categoryOf {
		t.entries = append(t.entries, entry)
	}
	sort.Slice(t.entries, func(i, j int) bool {
		if len(t.entries[i]) != len(t.entries[j]) {
			return len(t.entries[i]) > len(t.entries[j])
		}
		return t.entries[i] < t.entries[j]
	})
}

// NormalizeName lowercases, strips accents and removes every non-alphanumeric
// rune. Category and forbidden detection depend on this exact normalization;
// changing it changes which substring matches fire.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TimingGroup maps a timing category to the criteria group that scores it.
// Meals share the comida_principal band; unknown categories map to "".
func TimingGroup(category string) string {
	switch category {
	case "pre_entreno":
		return "pre_entreno"
	case "post_entreno":
		return "post_entreno"
	case "desayuno", "almuerzo", "cena", "comida_principal":
		return "comida_principal"
	case "snack":
		return "snack_complemento"
	default:
		return ""
	}
}

// DefaultTaxonomy returns the production lookup tables.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{
		NaturalCategories: map[string][]string{
			"proteinas": {
				"pollo", "pavo", "ternera", "huevo", "clara de huevo",
				"atun", "salmon", "merluza", "bacalao", "gambas",
				"tofu", "tempeh", "lentejas", "garbanzos", "judias",
			},
			"carbohidratos": {
				"arroz", "avena", "patata", "boniato", "quinoa",
				"pasta integral", "pan integral", "cuscus", "maiz",
			},
			"verduras": {
				"brocoli", "espinaca", "calabacin", "pimiento", "cebolla",
				"tomate", "zanahoria", "lechuga", "champinon", "esparrago",
				"pepino", "col rizada", "judias verdes",
			},
			"frutas": {
				"platano", "manzana", "fresa", "arandano", "naranja",
				"kiwi", "pera", "melocoton", "pina", "uvas",
			},
			"grasas": {
				"aceite de oliva", "aguacate", "almendra", "nuez",
				"cacahuete", "semillas de chia", "semillas de lino", "tahini",
			},
			"lacteos": {
				"yogur griego", "queso fresco", "leche", "kefir", "requeson",
			},
		},
		Forbidden: []string{
			"salchichas", "bacon", "embutido", "fiambre",
			"azucar refinado", "refresco", "bolleria", "nuggets",
			"margarina", "sirope de maiz", "patatas fritas", "precocinado",
		},
		MethodKeywords: map[string][]string{
			"horno":   {"horno", "hornear", "asado", "gratinar"},
			"sarten":  {"sarten", "saltear", "sofreir", "freir"},
			"plancha": {"plancha", "parrilla", "grill"},
			"vapor":   {"vapor", "vaporera"},
			"crudo":   {"crudo", "sin coccion", "ensalada", "batido"},
			"cocido":  {"cocido", "hervir", "cocer", "guiso"},
		},
		MethodOrder:   []string{"horno", "plancha", "vapor", "crudo", "cocido", "sarten"},
		DefaultMethod: "sarten",
		TimingCriteria: map[string]TimingCriteria{
			"pre_entreno": {
				Calories:   NutrientBand{150, 350},
				ProteinPct: NutrientBand{10, 20},
				CarbsPct:   NutrientBand{50, 80},
				FatPct:     NutrientBand{5, 15},
				BonusRule:  BonusFiberAtMost,
				BonusGrams: 5,
			},
			"post_entreno": {
				Calories:   NutrientBand{250, 500},
				ProteinPct: NutrientBand{30, 50},
				CarbsPct:   NutrientBand{35, 55},
				FatPct:     NutrientBand{10, 25},
				BonusRule:  BonusProteinAtLeast,
				BonusGrams: 20,
			},
			"comida_principal": {
				Calories:   NutrientBand{400, 700},
				ProteinPct: NutrientBand{20, 35},
				CarbsPct:   NutrientBand{35, 50},
				FatPct:     NutrientBand{20, 35},
				BonusRule:  BonusFiberAtLeast,
				BonusGrams: 8,
			},
			"snack_complemento": {
				Calories:   NutrientBand{100, 300},
				ProteinPct: NutrientBand{15, 30},
				CarbsPct:   NutrientBand{25, 60},
				FatPct:     NutrientBand{25, 45},
				BonusRule:  BonusNone,
			},
		},
	}
	t.buildIndex()
	return t
}

// NewTaxonomy builds a taxonomy from caller-supplied tables. Tests use this
// to substitute small fixtures for the production word lists.
func NewTaxonomy(natural map[string][]string, forbidden []string, methodKeywords map[string][]string, methodOrder []string, defaultMethod string, criteria map[string]TimingCriteria) *Taxonomy {
	t := &Taxonomy{
		NaturalCategories: natural,
		Forbidden:         forbidden,
		MethodKeywords:    methodKeywords,
		MethodOrder:       methodOrder,
		DefaultMethod:     defaultMethod,
		TimingCriteria:    criteria,
	}
	t.buildIndex()
	return t
}
