package questiongen

import (
	"strings"

	"beverage-quiz-service/internal/domain"
)

// Category keys understood by the registry.
const (
	CategoryWine         = "wine"
	CategorySpirits      = "spirits"
	CategoryCocktail     = "cocktail"
	CategoryBeer         = "beer"
	CategoryChampagne    = "champagne"
	CategoryNonAlcoholic = "non_alcoholic"
)

// Template renders one kind of question for a catalog item.
type Template struct {
	Name    string
	Prompt  func(item domain.CatalogItem) string
	Options func(item domain.CatalogItem, number int) []string
	// Correct returns the index of the right option, or -1 when the item
	// lacks the attribute the template asks about.
	Correct func(item domain.CatalogItem, options []string) int
	// Explain is optional; defaultExplanation is used when nil.
	Explain func(item domain.CatalogItem, answer string) string
}

// Registry maps a category key to its template table.
type Registry struct {
	tables   map[string][]Template
	fallback []Template
}

// NewRegistry creates a registry whose unmatched categories use fallback.
func NewRegistry(fallback []Template) *Registry {
	return &Registry{
		tables:   make(map[string][]Template),
		fallback: fallback,
	}
}

// Register sets the template table for a category key.
func (r *Registry) Register(key string, templates []Template) {
	r.tables[key] = templates
}

// Table returns the templates for key, or the generic table.
func (r *Registry) Table(key string) []Template {
	if table, ok := r.tables[key]; ok && len(table) > 0 {
		return table
	}
	return r.fallback
}

// DefaultRegistry holds the six beverage categories plus the generic table.
func DefaultRegistry() *Registry {
	r := NewRegistry(genericTemplates())
	r.Register(CategoryWine, wineTemplates())
	r.Register(CategorySpirits, spiritsTemplates())
	r.Register(CategoryCocktail, cocktailTemplates())
	r.Register(CategoryBeer, beerTemplates())
	r.Register(CategoryChampagne, champagneTemplates())
	r.Register(CategoryNonAlcoholic, nonAlcoholicTemplates())
	return r
}

var categoryAliases = map[string]string{
	"wine":           CategoryWine,
	"wines":          CategoryWine,
	"вино":           CategoryWine,
	"вина":           CategoryWine,
	"spirits":        CategorySpirits,
	"spirit":         CategorySpirits,
	"крепкий":        CategorySpirits,
	"крепкие":        CategorySpirits,
	"cocktail":       CategoryCocktail,
	"cocktails":      CategoryCocktail,
	"коктейли":       CategoryCocktail,
	"beer":           CategoryBeer,
	"пиво":           CategoryBeer,
	"champagne":      CategoryChampagne,
	"sparkling":      CategoryChampagne,
	"шампанское":     CategoryChampagne,
	"non_alcoholic":  CategoryNonAlcoholic,
	"non-alcoholic":  CategoryNonAlcoholic,
	"безалкогольные": CategoryNonAlcoholic,
}

// Ordered so that "non-alcoholic" wins over "alcohol" and "sparkling wine"
// lands in champagne rather than wine.
var categoryKeywords = []struct {
	word string
	key  string
}{
	{"non-alc", CategoryNonAlcoholic},
	{"non alc", CategoryNonAlcoholic},
	{"безалког", CategoryNonAlcoholic},
	{"champagne", CategoryChampagne},
	{"sparkling", CategoryChampagne},
	{"шампан", CategoryChampagne},
	{"игрист", CategoryChampagne},
	{"cocktail", CategoryCocktail},
	{"коктейл", CategoryCocktail},
	{"wine", CategoryWine},
	{"вин", CategoryWine},
	{"beer", CategoryBeer},
	{"пив", CategoryBeer},
	{"spirit", CategorySpirits},
	{"крепк", CategorySpirits},
}

// CategoryKey normalizes a catalog category label. It returns "" when the
// label matches none of the known categories.
func CategoryKey(label string) string {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return ""
	}
	if key, ok := categoryAliases[normalized]; ok {
		return key
	}
	for _, kw := range categoryKeywords {
		if strings.Contains(normalized, kw.word) {
			return kw.key
		}
	}
	return ""
}
