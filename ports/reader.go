package ports

import (
	"goab/domain/abtest"
)

// VariationReader loads named observation counts from an external data file
type VariationReader interface {
	ReadVariations(path string) ([]abtest.Variation, error)
}
