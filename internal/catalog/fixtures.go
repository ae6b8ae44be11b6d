package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Products []ProductInput `yaml:"products"`
	Cafe     *CafeInfoInput `yaml:"cafe"`
}

func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return f, nil
}

func DefaultFixtures() Fixtures {
	f, err := ParseFixtures(defaultFixtures)
	if err != nil {
		panic(err)
	}
	return f
}

// Seed loads fixtures into a store that has no products and no café info
// yet. Existing data is left untouched, so running it on every start is safe.
func Seed(ctx context.Context, s Store, f Fixtures) error {
	existing, err := s.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) == 0 {
		for i, in := range f.Products {
			if err := in.Validate(); err != nil {
				return fmt.Errorf("seed: product #%d: %w", i, err)
			}
			if _, err := s.CreateProduct(ctx, in); err != nil {
				return fmt.Errorf("seed: create product %q: %w", in.Name, err)
			}
		}
	}

	if f.Cafe == nil {
		return nil
	}
	if _, ok, err := s.GetCafeInfo(ctx); err != nil {
		return fmt.Errorf("seed: get cafe info: %w", err)
	} else if ok {
		return nil
	}
	if err := f.Cafe.Validate(); err != nil {
		return fmt.Errorf("seed: cafe info: %w", err)
	}
	if _, err := s.CreateCafeInfo(ctx, *f.Cafe); err != nil {
		return fmt.Errorf("seed: create cafe info: %w", err)
	}
	return nil
}
