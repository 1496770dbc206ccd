package food

import (
	"errors"
	"fmt"
)

// Category identifies one of the three disjoint lists in a Catalog.
type Category string

const (
	CategoryRice     Category = "rice"
	CategorySoup     Category = "soup"
	CategorySideDish Category = "sideDish"
)

// Categories lists every category in catalog order.
var Categories = []Category{CategoryRice, CategorySoup, CategorySideDish}

var (
	ErrUnknownCategory = errors.New("unknown food category")
	ErrDuplicateItem   = errors.New("duplicate food item")
)

// ParseCategory maps user input to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "rice", "밥":
		return CategoryRice, nil
	case "soup", "국":
		return CategorySoup, nil
	case "sideDish", "sidedish", "side", "반찬":
		return CategorySideDish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Item is a single food with its nutrition per serving.
// Carb, Protein and Fat are grams.
type Item struct {
	Name      string   `json:"name" yaml:"name"`
	Kcal      float64  `json:"kcal" yaml:"kcal"`
	Carb      float64  `json:"carb" yaml:"carb"`
	Protein   float64  `json:"protein" yaml:"protein"`
	Fat       float64  `json:"fat" yaml:"fat"`
	Allergens []string `json:"allergies" yaml:"allergies"`
}

// HasAnyAllergen reports whether the item carries at least one tag in set.
// Item tags are compared in their normalized form.
func (i Item) HasAnyAllergen(set AllergenSet) bool {
	for _, a := range i.Allergens {
		if set.Contains(NormalizeAllergen(a)) {
			return true
		}
	}
	return false
}

// Catalog holds the available items partitioned by category.
type Catalog struct {
	Rice     []Item `json:"rice" yaml:"rice"`
	Soup     []Item `json:"soup" yaml:"soup"`
	SideDish []Item `json:"sideDish" yaml:"sideDish"`
}

// normalizeAllergens rewrites every item's tags in place.
func (c *Catalog) normalizeAllergens() {
	for _, items := range [][]Item{c.Rice, c.Soup, c.SideDish} {
		for i := range items {
			items[i].Allergens = NormalizeAllergens(items[i].Allergens)
		}
	}
}

// Items returns the list for cat.
func (c Catalog) Items(cat Category) []Item {
	switch cat {
	case CategoryRice:
		return c.Rice
	case CategorySoup:
		return c.Soup
	case CategorySideDish:
		return c.SideDish
	}
	return nil
}

// Add appends item to the list for cat.
func (c *Catalog) Add(cat Category, item Item) error {
	for _, existing := range c.Items(cat) {
		if existing.Name == item.Name {
			return fmt.Errorf("%w: %s %q", ErrDuplicateItem, cat, item.Name)
		}
	}

	switch cat {
	case CategoryRice:
		c.Rice = append(c.Rice, item)
	case CategorySoup:
		c.Soup = append(c.Soup, item)
	case CategorySideDish:
		c.SideDish = append(c.SideDish, item)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	return nil
}

// Len returns the total number of items across categories.
func (c Catalog) Len() int {
	return len(c.Rice) + len(c.Soup) + len(c.SideDish)
}

// WithoutAllergens returns a copy of the catalog without any item tagged with
// one of the given allergens. Order within each category is preserved.
func (c Catalog) WithoutAllergens(set AllergenSet) Catalog {
	return Catalog{
		Rice:     filterItems(c.Rice, set),
		Soup:     filterItems(c.Soup, set),
		SideDish: filterItems(c.SideDish, set),
	}
}

func filterItems(items []Item, set AllergenSet) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.HasAnyAllergen(set) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Validate checks that names are present and unique per category and that no
// nutrition value is negative.
func (c Catalog) Validate() error {
	for _, cat := range Categories {
		seen := make(map[string]struct{})
		for _, item := range c.Items(cat) {
			if item.Name == "" {
				return fmt.Errorf("%s item with empty name", cat)
			}
			if _, dup := seen[item.Name]; dup {
				return fmt.Errorf("%w: %s %q", ErrDuplicateItem, cat, item.Name)
			}
			seen[item.Name] = struct{}{}

			if item.Kcal < 0 || item.Carb < 0 || item.Protein < 0 || item.Fat < 0 {
				return fmt.Errorf("%s %q has negative nutrition values", cat, item.Name)
			}
		}
	}
	return nil
}
