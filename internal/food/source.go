package food

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Source provides the three lists of items a search runs over.
type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// StaticSource serves a fixed catalog. Useful for tests and small fixtures.
type StaticSource struct {
	Catalog Catalog
}

// Load returns the wrapped catalog.
func (s StaticSource) Load(_ context.Context) (Catalog, error) {
	return s.Catalog, nil
}

// FileSource reads a YAML catalog from disk, or the built-in catalog when
// Path is empty.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and validates the catalog file.
func (s *FileSource) Load(_ context.Context) (Catalog, error) {
	if s.Path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file %s: %w", s.Path, err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog decodes and validates a YAML (or JSON) catalog document.
// Allergen tags are normalized, so "egg" is stored as 달걀.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.normalizeAllergens()
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// MarshalCatalog encodes a catalog in the same YAML layout ParseCatalog reads.
func MarshalCatalog(c Catalog) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}
