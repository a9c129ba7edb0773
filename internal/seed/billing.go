package seed

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeBilling creates products and prices through the Stripe API.
type StripeBilling struct {
	api *client.API
}

func NewStripeBilling(secretKey string) *StripeBilling {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeBilling{api: api}
}

// CreateProduct makes a product plus one monthly recurring price with the
// given trial window. No idempotency key is sent, so repeat runs make repeat
// products.
func (b *StripeBilling) CreateProduct(ctx context.Context, name string, amountCents, trialDays int64) error {
	product, err := b.api.Products.New(&stripe.ProductParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
	})
	if err != nil {
		return fmt.Errorf("create product %q: %w", name, err)
	}
	_, err = b.api.Prices.New(&stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(amountCents),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Recurring: &stripe.PriceRecurringParams{
			Interval:        stripe.String(string(stripe.PriceRecurringIntervalMonth)),
			TrialPeriodDays: stripe.Int64(trialDays),
		},
	})
	if err != nil {
		return fmt.Errorf("create price for %q: %w", name, err)
	}
	return nil
}
