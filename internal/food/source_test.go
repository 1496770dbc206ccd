package food

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to load default catalog: %v", err)
	}

	if len(c.Rice) != 5 || len(c.Soup) != 12 || len(c.SideDish) != 33 {
		t.Errorf("Expected 5/12/33 items, got %d/%d/%d", len(c.Rice), len(c.Soup), len(c.SideDish))
	}
	if c.Rice[0].Name != "흰쌀밥" || c.Rice[0].Kcal != 300 || c.Rice[0].Carb != 65 {
		t.Errorf("Unexpected first rice item: %+v", c.Rice[0])
	}

	bori := c.Rice[3]
	if bori.Name != "보리밥" || len(bori.Allergens) != 1 || bori.Allergens[0] != AllergenWheat {
		t.Errorf("Expected 보리밥 tagged with wheat, got %+v", bori)
	}
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyPathUsesDefault", func(t *testing.T) {
		c, err := NewFileSource("").Load(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if c.Len() != 50 {
			t.Errorf("Expected 50 default items, got %d", c.Len())
		}
	})

	t.Run("ReadsYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `
rice:
  - {name: 흰쌀밥, kcal: 300, carb: 65, protein: 5, fat: 1, allergies: []}
soup:
  - {name: 미역국, kcal: 80, carb: 5, protein: 3, fat: 5}
sideDish:
  - {name: 김치, kcal: 20, carb: 3, protein: 1, fat: 0.5}
  - {name: 계란말이, kcal: 120, carb: 3, protein: 8, fat: 8, allergies: [달걀]}
`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("Failed to write catalog: %v", err)
		}

		c, err := NewFileSource(path).Load(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(c.SideDish) != 2 || c.SideDish[1].Allergens[0] != AllergenEgg {
			t.Errorf("Unexpected side dishes: %+v", c.SideDish)
		}
		if c.SideDish[0].Fat != 0.5 {
			t.Errorf("Expected fractional fat 0.5, got %v", c.SideDish[0].Fat)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Load(ctx)
		if err == nil {
			t.Fatal("Expected an error for a missing file, got nil")
		}
	})

	t.Run("InvalidCatalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		os.WriteFile(path, []byte("rice:\n  - {name: 밥, kcal: -10}\n"), 0644)

		_, err := NewFileSource(path).Load(ctx)
		if err == nil || !strings.HasPrefix(err.Error(), "invalid catalog") {
			t.Errorf("Expected invalid catalog error, got %v", err)
		}
	})
}

func TestMarshalCatalogRoundTrip(t *testing.T) {
	original := testCatalog()
	data, err := MarshalCatalog(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	parsed, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if parsed.Len() != original.Len() || parsed.SideDish[3].Name != "시금치나물" {
		t.Errorf("Round trip lost items: %+v", parsed)
	}
}

func TestStaticSource(t *testing.T) {
	c, err := StaticSource{Catalog: testCatalog()}.Load(context.Background())
	if err != nil || c.Len() != 8 {
		t.Errorf("Expected the wrapped catalog, got %d items, err %v", c.Len(), err)
	}
}

func TestParseCatalogNormalizesAllergens(t *testing.T) {
	data := []byte(`
rice:
  - {name: 흰쌀밥, kcal: 300, carb: 65, protein: 5, fat: 1}
soup:
  - {name: 계란국, kcal: 70, carb: 3, protein: 5, fat: 4, allergies: [egg]}
sideDish:
  - {name: 두부조림, kcal: 100, carb: 6, protein: 8, fat: 5, allergies: [Soy, 콩, shellfish]}
`)

	c, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(c.Soup[0].Allergens, []string{AllergenEgg}) {
		t.Errorf("Expected egg tag normalized, got %v", c.Soup[0].Allergens)
	}
	if want := []string{AllergenSoy, AllergenShellfish}; !reflect.DeepEqual(c.SideDish[0].Allergens, want) {
		t.Errorf("Expected %v, got %v", want, c.SideDish[0].Allergens)
	}
	if len(c.Rice[0].Allergens) != 0 {
		t.Errorf("Expected no tags on rice, got %v", c.Rice[0].Allergens)
	}
}
