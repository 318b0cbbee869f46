package questiongen

import (
	"fmt"
	"strings"

	"beverage-quiz-service/internal/domain"
)

// rule maps any of its words, found in an attribute value, to an option index.
type rule struct {
	words []string
	index int
}

func when(index int, words ...string) rule {
	return rule{words: words, index: index}
}

// matchRules returns the index of the first rule with a word contained in
// value. Rules are checked in order so more specific words go first.
func matchRules(value string, rules []rule) int {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return -1
	}
	for _, rl := range rules {
		for _, w := range rl.words {
			if strings.Contains(v, w) {
				return rl.index
			}
		}
	}
	return -1
}

func byAttribute(attr func(domain.CatalogItem) string, rules ...rule) func(domain.CatalogItem, []string) int {
	return func(item domain.CatalogItem, _ []string) int {
		return matchRules(attr(item), rules)
	}
}

func fixed(options ...string) func(domain.CatalogItem, int) []string {
	return func(domain.CatalogItem, int) []string {
		return append([]string(nil), options...)
	}
}

func prompt(format string) func(domain.CatalogItem) string {
	return func(item domain.CatalogItem) string {
		return fmt.Sprintf(format, item.Name)
	}
}

// byStrength buckets the item's ABV by inclusive upper bounds; values above
// the last bound fall into the last option.
func byStrength(uppers ...float64) func(domain.CatalogItem, []string) int {
	return func(item domain.CatalogItem, _ []string) int {
		if item.AlcoholPercent == nil {
			return -1
		}
		abv := *item.AlcoholPercent
		for i, upper := range uppers {
			if abv <= upper {
				return i
			}
		}
		return len(uppers)
	}
}

// always marks a fixed option as correct regardless of the item.
func always(index int) func(domain.CatalogItem, []string) int {
	return func(domain.CatalogItem, []string) int { return index }
}

// placeAt builds size options with correct at slot, filling the rest with
// distinct distractors that differ from correct. When distractors run out the
// list is topped up from fillerOptions.
func placeAt(correct string, distractors []string, slot, size int) []string {
	others := make([]string, 0, size-1)
	add := func(candidates []string) {
		for _, d := range candidates {
			if len(others) == size-1 {
				return
			}
			if strings.EqualFold(d, correct) || containsFold(others, d) {
				continue
			}
			others = append(others, d)
		}
	}
	add(distractors)
	add(fillerOptions)
	slot %= len(others) + 1
	options := make([]string, 0, len(others)+1)
	options = append(options, others[:slot]...)
	options = append(options, correct)
	options = append(options, others[slot:]...)
	return options
}

var fillerOptions = []string{"None of these", "Not listed", "Unknown"}

func indexOf(options []string, value string) int {
	for i, opt := range options {
		if strings.EqualFold(opt, value) {
			return i
		}
	}
	return -1
}

func containsFold(values []string, value string) bool {
	return indexOf(values, value) >= 0
}

func defaultExplanation(item domain.CatalogItem, answer string) string {
	text := fmt.Sprintf("%s: %s.", item.Name, answer)
	if item.Description != "" {
		text += " " + item.Description
	}
	return text
}
