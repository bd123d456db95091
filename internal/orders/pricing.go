package orders

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/config"
)

// Pricer computes shipping and tax for an order subtotal. Rules are fixed;
// only the parameters come from configuration.
type Pricer struct {
	freeShippingCents int
	flatShippingCents int
	taxRate           decimal.Decimal
}

// NewPricer builds a pricer from the configured thresholds and tax rate.
func NewPricer(cfg config.PricingConfig) (*Pricer, error) {
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate %q: %w", cfg.TaxRate, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	if cfg.FlatShippingCents < 0 || cfg.FreeShippingCents < 0 {
		return nil, fmt.Errorf("shipping amounts cannot be negative")
	}
	return &Pricer{
		freeShippingCents: cfg.FreeShippingCents,
		flatShippingCents: cfg.FlatShippingCents,
		taxRate:           rate,
	}, nil
}

// ShippingCents is free at or above the threshold, otherwise the flat fee.
func (p *Pricer) ShippingCents(subtotalCents int) int {
	if subtotalCents >= p.freeShippingCents {
		return 0
	}
	return p.flatShippingCents
}

// TaxCents applies the flat rate to the subtotal, rounded to the nearest cent.
func (p *Pricer) TaxCents(subtotalCents int) int {
	if p.taxRate.IsZero() {
		return 0
	}
	tax := decimal.NewFromInt(int64(subtotalCents)).Mul(p.taxRate).Round(0)
	return int(tax.IntPart())
}
