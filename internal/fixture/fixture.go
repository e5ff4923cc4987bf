// Package fixture loads the static product list. Records are decoded
// strictly and validated here so the rest of the service can trust them.
package fixture

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	"github.com/mhasan0505/sanslibyzebin/pkg/validator"
)

//go:embed products.yaml
var defaultProducts []byte

type document struct {
	Products []domain.Product `yaml:"products"`
}

// Default returns the embedded product list.
func Default() ([]domain.Product, error) {
	return Decode(bytes.NewReader(defaultProducts))
}

// LoadFile reads a product list from path. An empty path selects Default.
func LoadFile(path string) ([]domain.Product, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML product document. Unknown fields, invalid records,
// malformed prices and duplicate ids are rejected with an error naming the
// record.
func Decode(r io.Reader) ([]domain.Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode fixture: empty document")
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("decode fixture: no products")
	}

	seen := make(map[int]int, len(doc.Products))
	for i, p := range doc.Products {
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product[%d] (id %d): %w", i, p.ID, err)
		}
		if !catalog.IsValidPrice(p.Price) {
			return nil, fmt.Errorf("product[%d] (id %d): invalid price %q", i, p.ID, p.Price)
		}
		if first, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product[%d] (id %d): duplicate of product[%d]", i, p.ID, first)
		}
		seen[p.ID] = i
	}
	return doc.Products, nil
}
