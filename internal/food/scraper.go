package food

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var columnAliases = map[string]string{
	"name":      "name",
	"food":      "name",
	"dish":      "name",
	"이름":        "name",
	"음식":        "name",
	"음식명":       "name",
	"kcal":      "kcal",
	"calories":  "kcal",
	"energy":    "kcal",
	"칼로리":       "kcal",
	"열량":        "kcal",
	"carb":      "carb",
	"carbs":     "carb",
	"탄수화물":      "carb",
	"protein":   "protein",
	"단백질":       "protein",
	"fat":       "fat",
	"지방":        "fat",
	"allergies": "allergies",
	"allergens": "allergies",
	"알레르기":      "allergies",
}

var requiredColumns = []string{"name", "kcal", "carb", "protein", "fat"}

// Scraper imports items from an HTML page that lists nutrition facts in a
// table.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a new Scraper.
func NewScraper() *Scraper {
	return &Scraper{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// Scrape fetches url and parses the first nutrition table on the page.
func (s *Scraper) Scrape(ctx context.Context, url string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return ParseNutritionTable(resp.Body)
}

// ParseNutritionTable reads an HTML document and extracts items from the
// first table whose header names every required column.
func ParseNutritionTable(r io.Reader) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var (
		items  []Item
		found  bool
		rowErr error
	)
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		columns := headerColumns(table)
		if !hasColumns(columns, requiredColumns) {
			return true
		}
		found = true

		table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.Find("td")
			if cells.Length() == 0 {
				return true
			}
			item, err := parseRow(cells, columns)
			if err != nil {
				rowErr = err
				return false
			}
			items = append(items, item)
			return true
		})
		return false
	})

	if rowErr != nil {
		return nil, rowErr
	}
	if !found {
		return nil, fmt.Errorf("no nutrition table found")
	}
	return items, nil
}

func headerColumns(table *goquery.Selection) map[string]int {
	columns := make(map[string]int)
	table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(cell.Text()))
		if name, ok := columnAliases[key]; ok {
			columns[name] = i
		}
	})
	return columns
}

func hasColumns(columns map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := columns[n]; !ok {
			return false
		}
	}
	return true
}

func parseRow(cells *goquery.Selection, columns map[string]int) (Item, error) {
	text := func(col string) string {
		idx, ok := columns[col]
		if !ok || idx >= cells.Length() {
			return ""
		}
		return strings.TrimSpace(cells.Eq(idx).Text())
	}

	item := Item{Name: text("name"), Allergens: []string{}}
	if item.Name == "" {
		return Item{}, fmt.Errorf("row without a name")
	}

	fields := []struct {
		col string
		dst *float64
	}{
		{"kcal", &item.Kcal},
		{"carb", &item.Carb},
		{"protein", &item.Protein},
		{"fat", &item.Fat},
	}
	for _, f := range fields {
		v, err := parseAmount(text(f.col))
		if err != nil {
			return Item{}, fmt.Errorf("%q: invalid %s: %w", item.Name, f.col, err)
		}
		*f.dst = v
	}

	if raw := text("allergies"); raw != "" && raw != "-" {
		item.Allergens = ParseAllergens(raw).Slice()
	}
	return item, nil
}

// parseAmount accepts values such as "12.5", "12.5 g", "1,200 kcal" or "-".
func parseAmount(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "kcal")
	s = strings.TrimSuffix(s, "g")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %v", v)
	}
	return v, nil
}
