package bootstrap

import (
	"context"
	"fmt"

	"github.com/norahairline/norahairline/internal/models"
	"github.com/norahairline/norahairline/internal/store"
)

var sampleProducts = []struct {
	name, description, category string
	price                       float64
	stock                       int
	featured                    bool
}{
	{"Brazilian Body Wave Bundle 18\"", "Single 100g bundle of virgin Brazilian body wave hair", "bundles", 89.99, 40, true},
	{"Peruvian Straight Bundle 22\"", "Single 100g bundle of silky Peruvian straight hair", "bundles", 109.99, 35, false},
	{"Malaysian Deep Wave Bundle 20\"", "Single 100g bundle with defined deep wave pattern", "bundles", 99.50, 25, false},
	{"HD Lace Closure 4x4", "Free part HD lace closure, body wave", "closures", 59.99, 30, false},
	{"Transparent Lace Frontal 13x4", "Pre-plucked ear-to-ear frontal, straight", "frontals", 119.00, 20, true},
	{"Bob Wig 12\" Straight", "Glueless lace front bob wig, natural black", "wigs", 149.99, 15, true},
	{"Water Wave Wig 26\"", "180% density water wave lace front wig", "wigs", 289.00, 10, false},
	{"Edge Control Gel", "Strong hold edge control for sleek baby hairs", "accessories", 12.50, 100, false},
	{"Satin Bonnet", "Double-layer satin bonnet for overnight protection", "accessories", 9.99, 100, false},
}

// createSampleCatalog inserts the demo products and returns how many were created.
func createSampleCatalog(ctx context.Context, st *store.Store) (int, error) {
	for _, sp := range sampleProducts {
		p := models.NewProduct(sp.name, sp.description, sp.category, sp.price)
		p.Stock = sp.stock
		p.Featured = sp.featured
		if err := st.CreateProduct(ctx, p); err != nil {
			return 0, fmt.Errorf("failed to create product %q: %w", sp.name, err)
		}
	}
	return len(sampleProducts), nil
}
