// Package catalog guarda os dados estáticos do módulo de comida.
package catalog

import (
	"sort"
	"strings"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

// Brand is one food chain with its static menu, category to item names.
type Brand struct {
	Key  string              `json:"key"`
	Name string              `json:"name"`
	Menu map[string][]string `json:"menu"`
}

// Item is one menu entry resolved from a slug.
type Item struct {
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Prices holds the per-channel price points of an item in one city.
type Prices struct {
	Official int `json:"official"`
	Swiggy   int `json:"swiggy"`
	Zomato   int `json:"zomato"`
}

// BuyLinks points to the channels where the item can be ordered.
type BuyLinks struct {
	Official string `json:"official"`
	Swiggy   string `json:"swiggy"`
	Zomato   string `json:"zomato"`
}

const fallbackCity = "bangalore"

// Catalog resolves brands, menu items and per-city prices. All data is fixed
// at startup.
type Catalog struct {
	brands        map[string]Brand
	cityPrices    map[string]Prices
	officialLinks map[string]string
}

func New() *Catalog {
	return &Catalog{
		brands: map[string]Brand{
			"dominos": {
				Key:  "dominos",
				Name: "Domino's",
				Menu: map[string][]string{
					"Pizza Mania": {
						"Classic Veg",
						"Classic Onion Capsicum",
						"Classic Corn",
						"Classic Tomato",
					},
				},
			},
			"pizzahut": {
				Key:  "pizzahut",
				Name: "Pizza Hut",
				Menu: map[string][]string{
					"Pizzas": {"Margherita", "Veggie Supreme"},
				},
			},
			"mcdonalds": {
				Key:  "mcdonalds",
				Name: "McDonald's",
				Menu: map[string][]string{
					"Burgers": {"McAloo Tikki", "McVeggie"},
				},
			},
		},
		cityPrices: map[string]Prices{
			"bangalore": {Official: 199, Swiggy: 219, Zomato: 209},
			"mumbai":    {Official: 189, Swiggy: 229, Zomato: 215},
			"delhi":     {Official: 195, Swiggy: 225, Zomato: 210},
		},
		officialLinks: map[string]string{
			"dominos":   "https://www.dominos.co.in",
			"pizzahut":  "https://www.pizzahut.co.in",
			"mcdonalds": "https://www.mcdonaldsindia.com",
		},
	}
}

// Brands lists every brand, ordered by key.
func (c *Catalog) Brands() []Brand {
	brands := make([]Brand, 0, len(c.brands))
	for _, brand := range c.brands {
		brands = append(brands, brand)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Key < brands[j].Key })
	return brands
}

func (c *Catalog) Brand(key string) (Brand, error) {
	brand, ok := c.brands[strings.ToLower(key)]
	if !ok {
		return Brand{}, domain.ErrNotFound
	}
	return brand, nil
}

// Item resolves a slug against the brand's menu.
func (c *Catalog) Item(brandKey, slug string) (Item, error) {
	brand, err := c.Brand(brandKey)
	if err != nil {
		return Item{}, err
	}

	for category, items := range brand.Menu {
		for _, name := range items {
			if Slugify(name) == slug {
				return Item{Brand: brand.Key, Category: category, Name: name}, nil
			}
		}
	}
	return Item{}, domain.ErrNotFound
}

// PricesFor returns the price table for city, falling back to bangalore for
// unknown cities. The resolved city name comes back with the prices.
func (c *Catalog) PricesFor(city string) (string, Prices) {
	key := strings.ToLower(strings.TrimSpace(city))
	if prices, ok := c.cityPrices[key]; ok {
		return key, prices
	}
	return fallbackCity, c.cityPrices[fallbackCity]
}

// Links returns the buy links for a brand. Unknown brands get "#" as the
// official link.
func (c *Catalog) Links(brandKey string) BuyLinks {
	official, ok := c.officialLinks[strings.ToLower(brandKey)]
	if !ok {
		official = "#"
	}
	return BuyLinks{
		Official: official,
		Swiggy:   "https://www.swiggy.com",
		Zomato:   "https://www.zomato.com",
	}
}

// Slugify turns a menu item name into its URL slug: lowercased, "&" removed,
// spaces replaced by hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, "&", "")
	return strings.ReplaceAll(slug, " ", "-")
}
