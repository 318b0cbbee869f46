package memory

import "beverage-quiz-service/internal/domain"

func pct(v float64) *float64 { return &v }

// SampleCatalog provides a small beverage catalog; swap this loader with the
// Postgres or backend loader in production.
func SampleCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "wine-chablis", Name: "Chablis Premier Cru", Category: "Wine", Sweetness: "Dry", Color: "White", Country: "France", AlcoholPercent: pct(12.5), Glassware: "White wine glass", Description: "Unoaked Chardonnay from northern Burgundy."},
		{ID: "wine-barolo", Name: "Barolo DOCG", Category: "Wine", Sweetness: "Dry", Color: "Red", Country: "Italy", AlcoholPercent: pct(14), Glassware: "Burgundy glass", Description: "Nebbiolo from Piedmont with firm tannins."},
		{ID: "wine-kindzmarauli", Name: "Kindzmarauli", Category: "Wine", Sweetness: "Semi-sweet", Color: "Red", Country: "Georgia", AlcoholPercent: pct(11), Description: "Naturally semi-sweet Saperavi from Kakheti."},
		{ID: "wine-provence", Name: "Côtes de Provence Rosé", Category: "Wine", Sweetness: "Dry", Color: "Rosé", Country: "France", AlcoholPercent: pct(13)},
		{ID: "spirit-lagavulin", Name: "Lagavulin 16", Category: "Spirits", Style: "Single malt Scotch whisky", Country: "Scotland", AlcoholPercent: pct(43), ServingMethod: "Neat", Glassware: "Glencairn"},
		{ID: "spirit-beluga", Name: "Beluga Noble", Category: "Spirits", Style: "Vodka", Country: "Russia", AlcoholPercent: pct(40), ServingMethod: "Neat, well chilled"},
		{ID: "spirit-havana", Name: "Havana Club 7", Category: "Spirits", Style: "Rum", Country: "Cuba", AlcoholPercent: pct(40), ServingMethod: "On the rocks"},
		{ID: "cocktail-negroni", Name: "Negroni", Category: "Cocktail", Ingredients: []string{"Gin", "Campari", "Sweet vermouth"}, ServingMethod: "Stirred", Glassware: "Rocks", AlcoholPercent: pct(24)},
		{ID: "cocktail-margarita", Name: "Margarita", Category: "Cocktail", Ingredients: []string{"Tequila", "Lime juice", "Triple sec"}, ServingMethod: "Shaken", Glassware: "Coupe", AlcoholPercent: pct(18)},
		{ID: "cocktail-mojito", Name: "Mojito", Category: "Cocktail", Ingredients: []string{"White rum", "Mint", "Lime juice", "Sugar", "Soda"}, ServingMethod: "Built in the glass", Glassware: "Highball", AlcoholPercent: pct(10)},
		{ID: "beer-pilsner", Name: "Pilsner Urquell", Category: "Beer", Style: "Czech pilsner", Color: "Golden", Country: "Czech Republic", AlcoholPercent: pct(4.4), Glassware: "Mug"},
		{ID: "beer-guinness", Name: "Guinness Draught", Category: "Beer", Style: "Irish dry stout", Color: "Dark", Country: "Ireland", AlcoholPercent: pct(4.2), Glassware: "Pint"},
		{ID: "beer-paulaner", Name: "Paulaner Hefe-Weissbier", Category: "Beer", Style: "Wheat", Color: "Light", Country: "Germany", AlcoholPercent: pct(5.5), Glassware: "Weizen glass"},
		{ID: "champagne-moet", Name: "Moët & Chandon Impérial", Category: "Champagne", Sweetness: "Brut", Style: "Champagne", Country: "France", AlcoholPercent: pct(12), Glassware: "Flute"},
		{ID: "champagne-prosecco", Name: "Prosecco Superiore", Category: "Champagne", Sweetness: "Extra dry", Style: "Prosecco", Country: "Italy", AlcoholPercent: pct(11), Glassware: "Tulip"},
		{ID: "na-lemonade", Name: "House lemonade", Category: "Non-alcoholic", Style: "Lemonade", AlcoholPercent: pct(0), ServingMethod: "With ice"},
		{ID: "na-matcha", Name: "Matcha latte", Category: "Non-alcoholic", Style: "Tea", AlcoholPercent: pct(0), ServingMethod: "Hot"},
		{ID: "na-zero-beer", Name: "Clausthaler Original", Category: "Non-alcoholic", Style: "Alcohol-free lager", AlcoholPercent: pct(0.45), ServingMethod: "Chilled"},
	}
}
