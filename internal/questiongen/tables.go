package questiongen

import (
	"strings"

	"beverage-quiz-service/internal/domain"
)

var countries = []string{"France", "Italy", "Spain", "Germany", "Scotland", "Mexico", "USA", "Ireland", "Japan", "Russia"}

var ingredientDistractors = []string{
	"Cream", "Tonic", "Coffee liqueur", "Grenadine", "Mint", "Orange juice", "Lime juice", "Soda",
	"Egg white", "Ginger beer", "Cranberry juice", "Honey syrup", "Cola", "Angostura bitters",
}

func color(item domain.CatalogItem) string     { return item.Color }
func sweetness(item domain.CatalogItem) string { return item.Sweetness }
func style(item domain.CatalogItem) string     { return item.Style }
func glass(item domain.CatalogItem) string     { return item.Glassware }
func serving(item domain.CatalogItem) string   { return item.ServingMethod }

// countryTemplate asks for the country of origin. Without a country on the
// item it shows a fixed option list and the first option is marked correct.
func countryTemplate() Template {
	return Template{
		Name:   "country",
		Prompt: prompt("Which country is %s from?"),
		Options: func(item domain.CatalogItem, number int) []string {
			if item.Country == "" {
				return append([]string(nil), countries[:4]...)
			}
			return placeAt(item.Country, countries, number, 4)
		},
		Correct: func(item domain.CatalogItem, options []string) int {
			if item.Country == "" {
				return -1
			}
			return indexOf(options, item.Country)
		},
	}
}

func wineTemplates() []Template {
	return []Template{
		{
			Name:    "sweetness",
			Prompt:  prompt("What is the sweetness level of %s?"),
			Options: fixed("Dry", "Semi-dry", "Semi-sweet", "Sweet"),
			Correct: byAttribute(sweetness,
				when(1, "semi-dry", "off-dry", "полусух"),
				when(2, "semi-sweet", "полуслад"),
				when(0, "dry", "сух", "brut", "брют"),
				when(3, "sweet", "dessert", "слад", "десерт"),
			),
		},
		{
			Name:    "color",
			Prompt:  prompt("What color is %s?"),
			Options: fixed("Red", "White", "Rosé", "Orange"),
			Correct: byAttribute(color,
				when(2, "rosé", "rose", "розов"),
				when(3, "orange", "оранж"),
				when(0, "red", "красн"),
				when(1, "white", "бел"),
			),
		},
		countryTemplate(),
		{
			Name:    "temperature",
			Prompt:  prompt("At what temperature should %s be served?"),
			Options: fixed("8–10 °C", "10–12 °C", "16–18 °C", "22–24 °C"),
			Correct: byAttribute(color,
				when(0, "rosé", "rose", "розов"),
				when(1, "white", "orange", "бел", "оранж"),
				when(2, "red", "красн"),
			),
			Explain: func(item domain.CatalogItem, answer string) string {
				return item.Name + " is served at " + answer + ". Red wines are served warmer than white and rosé wines, but never at room temperature."
			},
		},
	}
}

func spiritsTemplates() []Template {
	return []Template{
		{
			Name:    "type",
			Prompt:  prompt("What type of spirit is %s?"),
			Options: fixed("Whisky", "Vodka", "Rum", "Gin"),
			Correct: byAttribute(style,
				when(0, "whisk", "bourbon", "scotch", "виски", "бурбон"),
				when(1, "vodka", "водк"),
				when(2, "rum", "ром"),
				when(3, "gin", "джин"),
			),
		},
		{
			Name:    "strength",
			Prompt:  prompt("What is the strength of %s?"),
			Options: fixed("Up to 35%", "35–40%", "40–45%", "Over 45%"),
			Correct: byStrength(35, 40, 45),
		},
		{
			Name:    "serving",
			Prompt:  prompt("How is %s traditionally served?"),
			Options: fixed("Neat", "On the rocks", "In cocktails", "With a mixer"),
			Correct: byAttribute(serving,
				when(0, "neat", "чист"),
				when(3, "mixer", "tonic", "cola", "long", "тоник", "кол", "лонг"),
				when(1, "rocks", "ice", "лёд", "лед", "льдом"),
				when(2, "cocktail", "mix", "коктейл"),
			),
		},
		countryTemplate(),
	}
}

func cocktailTemplates() []Template {
	return []Template{
		{
			Name:    "glass",
			Prompt:  prompt("Which glass is %s served in?"),
			Options: fixed("Highball", "Coupe", "Rocks", "Wine glass"),
			Correct: byAttribute(glass,
				when(0, "highball", "collins", "хайбол"),
				when(1, "coupe", "martini", "купе", "мартин"),
				when(2, "rocks", "old fashioned", "олд фэшн", "рокс"),
				when(3, "wine", "винн"),
			),
		},
		{
			Name:   "ingredient",
			Prompt: prompt("Which ingredient goes into %s?"),
			Options: func(item domain.CatalogItem, number int) []string {
				if len(item.Ingredients) == 0 {
					return append([]string(nil), ingredientDistractors[:4]...)
				}
				distractors := make([]string, 0, len(ingredientDistractors))
				for _, d := range ingredientDistractors {
					if !containsFold(item.Ingredients, d) {
						distractors = append(distractors, d)
					}
				}
				return placeAt(item.Ingredients[0], distractors, number, 4)
			},
			Correct: func(item domain.CatalogItem, options []string) int {
				if len(item.Ingredients) == 0 {
					return -1
				}
				return indexOf(options, item.Ingredients[0])
			},
			Explain: func(item domain.CatalogItem, answer string) string {
				if len(item.Ingredients) == 0 {
					return defaultExplanation(item, answer)
				}
				return item.Name + " is made with " + strings.Join(item.Ingredients, ", ") + "."
			},
		},
		{
			Name:    "method",
			Prompt:  prompt("How is %s prepared?"),
			Options: fixed("Shaken", "Stirred", "Built in the glass", "Blended"),
			Correct: byAttribute(serving,
				when(0, "shake", "шейк"),
				when(1, "stir", "стир", "размеш"),
				when(2, "build", "built", "билд"),
				when(3, "blend", "бленд"),
			),
		},
		{
			Name:    "strength",
			Prompt:  prompt("How strong is %s?"),
			Options: fixed("Non-alcoholic", "Light, up to 15%", "Medium, 15–25%", "Strong, over 25%"),
			Correct: byStrength(0, 15, 25),
		},
	}
}

func beerTemplates() []Template {
	return []Template{
		{
			Name:    "style",
			Prompt:  prompt("What style of beer is %s?"),
			Options: fixed("Lager", "Ale", "Stout", "Wheat beer"),
			Correct: byAttribute(style,
				when(2, "stout", "porter", "стаут", "портер"),
				when(3, "wheat", "weiss", "weizen", "witbier", "пшенич", "вайс"),
				when(0, "lager", "pils", "лагер", "пилз"),
				when(1, "ale", "ipa", "эль"),
			),
		},
		{
			Name:    "strength",
			Prompt:  prompt("What is the strength of %s?"),
			Options: fixed("Up to 4.5%", "4.5–6%", "6–8%", "Over 8%"),
			Correct: byStrength(4.5, 6, 8),
		},
		{
			Name:    "color",
			Prompt:  prompt("What color is %s?"),
			Options: fixed("Light", "Amber", "Ruby", "Dark"),
			Correct: byAttribute(color,
				when(3, "dark", "black", "brown", "тёмн", "темн"),
				when(2, "ruby", "red", "рубин", "красн"),
				when(1, "amber", "copper", "янтар", "медн"),
				when(0, "light", "pale", "gold", "светл", "золот"),
			),
		},
		{
			Name:    "glass",
			Prompt:  prompt("Which glass is %s poured into?"),
			Options: fixed("Pint", "Tulip", "Weizen glass", "Mug"),
			Correct: byAttribute(glass,
				when(0, "pint", "пинт"),
				when(1, "tulip", "тюльпан"),
				when(2, "weizen", "вайцен"),
				when(3, "mug", "кружк"),
			),
		},
	}
}

func champagneTemplates() []Template {
	return []Template{
		{
			Name:    "sweetness",
			Prompt:  prompt("What is the dosage style of %s?"),
			Options: fixed("Brut", "Extra dry", "Demi-sec", "Doux"),
			Correct: byAttribute(sweetness,
				when(1, "extra dry", "extra-dry", "экстра сух"),
				when(2, "demi", "semi", "полуслад", "полусух"),
				when(3, "doux", "sweet", "слад"),
				when(0, "brut", "брют", "dry", "сух"),
			),
		},
		{
			Name:    "region",
			Prompt:  prompt("Where is %s produced?"),
			Options: fixed("Champagne, France", "Elsewhere in France", "Italy", "Spain"),
			Correct: byAttribute(func(item domain.CatalogItem) string {
				return item.Style + " " + item.Country
			},
				when(0, "champagne", "шампань"),
				when(1, "france", "crémant", "cremant", "франц"),
				when(2, "italy", "prosecco", "итал", "просекко"),
				when(3, "spain", "cava", "испан", "кава"),
			),
		},
		{
			Name:    "temperature",
			Prompt:  prompt("At what temperature should %s be served?"),
			Options: fixed("6–8 °C", "10–12 °C", "14–16 °C", "18–20 °C"),
			Correct: always(0),
			Explain: func(item domain.CatalogItem, answer string) string {
				return "Sparkling wines such as " + item.Name + " are served well chilled, at " + answer + "."
			},
		},
		{
			Name:    "glass",
			Prompt:  prompt("Which glass suits %s best?"),
			Options: fixed("Flute", "Tulip", "Coupe", "White wine glass"),
			Correct: byAttribute(glass,
				when(0, "flute", "флют", "флейт"),
				when(1, "tulip", "тюльпан"),
				when(2, "coupe", "купе"),
				when(3, "wine", "винн"),
			),
		},
	}
}

func nonAlcoholicTemplates() []Template {
	return []Template{
		{
			Name:    "type",
			Prompt:  prompt("What kind of drink is %s?"),
			Options: fixed("Lemonade", "Tea", "Coffee", "Juice or smoothie"),
			Correct: byAttribute(style,
				when(0, "lemonade", "soda", "лимонад"),
				when(2, "coffee", "espresso", "latte", "кофе"),
				when(1, "tea", "чай"),
				when(3, "juice", "smoothie", "сок", "смузи"),
			),
		},
		{
			Name:    "alcohol",
			Prompt:  prompt("How much alcohol does %s contain?"),
			Options: fixed("None", "Up to 0.5%", "0.5–1.2%", "More than 1.2%"),
			Correct: byStrength(0, 0.5, 1.2),
		},
		{
			Name:    "serving",
			Prompt:  prompt("How is %s served?"),
			Options: fixed("Chilled", "Hot", "With ice", "At room temperature"),
			Correct: byAttribute(serving,
				when(3, "room", "комнат"),
				when(1, "hot", "warm", "горяч"),
				when(2, "ice", "лёд", "лед", "льдом"),
				when(0, "chill", "cold", "охлажд"),
			),
		},
	}
}

func genericTemplates() []Template {
	return []Template{
		{
			Name:    "category",
			Prompt:  prompt("Which category does %s belong to?"),
			Options: fixed("Wine", "Spirits", "Cocktail", "Beer"),
			Correct: func(item domain.CatalogItem, _ []string) int {
				switch CategoryKey(item.Category) {
				case CategoryWine:
					return 0
				case CategorySpirits:
					return 1
				case CategoryCocktail:
					return 2
				case CategoryBeer:
					return 3
				}
				return -1
			},
		},
		countryTemplate(),
		{
			Name:    "strength",
			Prompt:  prompt("How strong is %s?"),
			Options: fixed("Non-alcoholic", "Up to 15%", "15–40%", "Over 40%"),
			Correct: byStrength(0, 15, 40),
		},
	}
}
