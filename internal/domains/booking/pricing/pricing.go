package pricing

//go:generate go run go.uber.org/mock/mockgen -source=./pricing.go -destination=../mocks/pricing_mock.go -package=mocks

import (
	"context"
	catalogModel "salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/service"
	"salon/shared/failure"
	"time"

	"github.com/shopspring/decimal"
)

// Places is the currency's fractional precision.
const Places = 2

var ErrNoServices = failure.InvalidBooking("at least one service is required")

// Quote is the price and length of a service set, resolved from a single catalog batch.
type Quote struct {
	Services []catalogModel.Service
	Total    decimal.Decimal
	Duration time.Duration
}

type Calculator interface {
	Quote(ctx context.Context, serviceIDs []string) (Quote, error)
	ComputeTotal(ctx context.Context, serviceIDs []string) (decimal.Decimal, error)
}

type calculator struct {
	catalog service.Catalog
}

func New(catalog service.Catalog) Calculator {
	return &calculator{catalog: catalog}
}

func (c *calculator) Quote(ctx context.Context, serviceIDs []string) (Quote, error) {
	if len(serviceIDs) == 0 {
		return Quote{}, ErrNoServices
	}

	services, err := c.catalog.LookupMany(ctx, serviceIDs)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Services: services,
		Total:    Sum(services),
		Duration: TotalDuration(services),
	}, nil
}

func (c *calculator) ComputeTotal(ctx context.Context, serviceIDs []string) (decimal.Decimal, error) {
	quote, err := c.Quote(ctx, serviceIDs)
	if err != nil {
		return decimal.Zero, err
	}

	return quote.Total, nil
}

func Sum(services []catalogModel.Service) decimal.Decimal {
	total := decimal.Zero
	for _, service := range services {
		total = total.Add(service.Price)
	}

	return total.Round(Places)
}

func TotalDuration(services []catalogModel.Service) time.Duration {
	var total time.Duration
	for _, service := range services {
		total += service.Duration()
	}

	return total
}
