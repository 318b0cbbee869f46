// Package questiongen turns catalog items into multiple-choice questions.
//
// Which template a question uses depends only on its number; only the item
// that fills the template is sampled at random.
package questiongen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"beverage-quiz-service/internal/domain"
)

// Generator builds questions from a template registry.
type Generator struct {
	registry *Registry

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator. A nil registry uses DefaultRegistry and a
// nil rnd is seeded from the clock.
func NewGenerator(registry *Registry, rnd *rand.Rand) *Generator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{registry: registry, rnd: rnd}
}

// FromItem renders question number for item. category selects the template
// table; when empty the item's own category is used.
func (g *Generator) FromItem(item domain.CatalogItem, number int, category string) domain.Question {
	if category == "" {
		category = item.Category
	}
	table := g.registry.Table(CategoryKey(category))
	tpl := table[mod(number, len(table))]

	options := tpl.Options(item, number)
	correct := tpl.Correct(item, options)
	if correct < 0 || correct >= len(options) {
		correct = 0
	}

	explain := tpl.Explain
	if explain == nil {
		explain = defaultExplanation
	}

	return domain.Question{
		ID:           number,
		Ref:          item.ID,
		Prompt:       tpl.Prompt(item),
		Options:      options,
		CorrectIndex: correct,
		Explanation:  explain(item, options[correct]),
		Category:     item.Category,
	}
}

// Generate samples one item of category from pool and renders it. An empty
// category draws from the whole pool.
func (g *Generator) Generate(pool []domain.CatalogItem, number int, category string) (domain.Question, error) {
	candidates := Candidates(pool, category)
	if len(candidates) == 0 {
		return domain.Question{}, fmt.Errorf("%w: %q", domain.ErrEmptyCandidatePool, category)
	}
	item := candidates[g.intn(len(candidates))]
	return g.FromItem(item, number, category), nil
}

// GenerateSet builds count questions numbered from 1, trimming each to
// optionCount options (0 keeps all). Items are drawn from a shuffled deck so
// none repeats before the pool is used up, and an item is not asked the same
// template twice while an unused pairing is left.
func (g *Generator) GenerateSet(pool []domain.CatalogItem, count int, category string, optionCount int) ([]domain.Question, error) {
	candidates := Candidates(pool, category)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrEmptyCandidatePool, category)
	}

	deck := &itemDeck{items: candidates, next: g.perm}
	seen := make(map[string]bool, count)
	questions := make([]domain.Question, 0, count)
	for number := 1; number <= count; number++ {
		item := deck.draw(func(item domain.CatalogItem) bool {
			return !seen[g.pairKey(item, number, category)]
		})
		seen[g.pairKey(item, number, category)] = true
		questions = append(questions, LimitOptions(g.FromItem(item, number, category), optionCount))
	}
	return questions, nil
}

// itemDeck hands out items in shuffled order and reshuffles once exhausted.
type itemDeck struct {
	items []domain.CatalogItem
	order []int
	next  func(n int) []int
}

// draw returns the first item of the current pass accepted by fresh. If none
// is, an accepted item from outside the pass is returned, and failing that
// the next item in order.
func (d *itemDeck) draw(fresh func(domain.CatalogItem) bool) domain.CatalogItem {
	if len(d.order) == 0 {
		d.order = d.next(len(d.items))
	}
	for i, idx := range d.order {
		if fresh(d.items[idx]) {
			d.order = append(d.order[:i:i], d.order[i+1:]...)
			return d.items[idx]
		}
	}
	for _, idx := range d.next(len(d.items)) {
		if fresh(d.items[idx]) {
			return d.items[idx]
		}
	}
	idx := d.order[0]
	d.order = d.order[1:]
	return d.items[idx]
}

// pairKey identifies the item and the template it is asked with.
func (g *Generator) pairKey(item domain.CatalogItem, number int, category string) string {
	if category == "" {
		category = item.Category
	}
	ref := item.ID
	if ref == "" {
		ref = item.Name
	}
	table := g.registry.Table(CategoryKey(category))
	return fmt.Sprintf("%s#%d", ref, mod(number, len(table)))
}

// Candidates filters pool down to the named items of category. Known
// categories are matched by key, unknown ones by case-insensitive label.
func Candidates(pool []domain.CatalogItem, category string) []domain.CatalogItem {
	category = strings.TrimSpace(category)
	key := CategoryKey(category)
	out := make([]domain.CatalogItem, 0, len(pool))
	for _, item := range pool {
		if item.Name == "" {
			continue
		}
		if category == "" {
			out = append(out, item)
		} else if key != "" && CategoryKey(item.Category) == key {
			out = append(out, item)
		} else if key == "" && strings.EqualFold(strings.TrimSpace(item.Category), category) {
			out = append(out, item)
		}
	}
	return out
}

// LimitOptions trims q to n options. The correct option always survives: if it
// would be cut it takes the last remaining slot.
func LimitOptions(q domain.Question, n int) domain.Question {
	if n <= 0 || len(q.Options) <= n {
		return q
	}
	options := append([]string(nil), q.Options[:n]...)
	if q.CorrectIndex >= n {
		options[n-1] = q.Options[q.CorrectIndex]
		q.CorrectIndex = n - 1
	}
	q.Options = options
	return q
}

func (g *Generator) perm(n int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Perm(n)
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Intn(n)
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
