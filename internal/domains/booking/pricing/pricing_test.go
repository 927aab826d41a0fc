package pricing_test

import (
	"context"
	"errors"
	"salon/internal/domains/booking/pricing"
	catalogMocks "salon/internal/domains/catalog/mocks"
	catalogModel "salon/internal/domains/catalog/model"
	"salon/shared/failure"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func service(id, price string, minutes int) catalogModel.Service {
	return catalogModel.Service{ID: id, Price: decimal.RequireFromString(price), DurationMinutes: minutes, Active: true}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		services []catalogModel.Service
		expected string
	}{
		{name: "empty", expected: "0"},
		{name: "single", services: []catalogModel.Service{service("a", "20", 30)}, expected: "20"},
		{name: "no float drift", services: []catalogModel.Service{service("a", "0.10", 10), service("b", "0.20", 10)}, expected: "0.3"},
		{name: "sub-cent rounded", services: []catalogModel.Service{service("a", "10.005", 10), service("b", "5.001", 10)}, expected: "15.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(pricing.Sum(tt.services)), pricing.Sum(tt.services).String())
		})
	}
}

func TestTotalDuration(t *testing.T) {
	services := []catalogModel.Service{service("a", "20", 30), service("b", "45", 60)}

	assert.Equal(t, 90*time.Minute, pricing.TotalDuration(services))
	assert.Zero(t, pricing.TotalDuration(nil))
}

func TestQuote(t *testing.T) {
	haircut := service("haircut", "20", 30)
	color := service("color", "55.50", 90)

	tests := []struct {
		name      string
		ids       []string
		setupMock func(catalog *catalogMocks.MockCatalog)
		total     string
		duration  time.Duration
		kind      failure.Kind
		wantErr   bool
	}{
		{
			name: "sums prices and durations",
			ids:  []string{"haircut", "color"},
			setupMock: func(catalog *catalogMocks.MockCatalog) {
				catalog.EXPECT().LookupMany(gomock.Any(), []string{"haircut", "color"}).Return([]catalogModel.Service{haircut, color}, nil)
			},
			total:    "75.50",
			duration: 2 * time.Hour,
		},
		{
			name:      "empty service set",
			setupMock: func(*catalogMocks.MockCatalog) {},
			kind:      failure.KindInvalidBooking,
			wantErr:   true,
		},
		{
			name: "unknown service",
			ids:  []string{"ghost"},
			setupMock: func(catalog *catalogMocks.MockCatalog) {
				catalog.EXPECT().LookupMany(gomock.Any(), gomock.Any()).Return(nil, failure.NotFound("service not found: ghost"))
			},
			kind:    failure.KindResourceNotFound,
			wantErr: true,
		},
		{
			name: "catalog unreachable",
			ids:  []string{"haircut"},
			setupMock: func(catalog *catalogMocks.MockCatalog) {
				catalog.EXPECT().LookupMany(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: refused"))
			},
			kind:    failure.KindUnknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			catalog := catalogMocks.NewMockCatalog(ctrl)
			tt.setupMock(catalog)

			quote, err := pricing.New(catalog).Quote(context.Background(), tt.ids)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.kind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.total, quote.Total.StringFixed(pricing.Places))
			assert.Equal(t, tt.duration, quote.Duration)
			assert.Len(t, quote.Services, len(tt.ids))
		})
	}
}

func TestComputeTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := catalogMocks.NewMockCatalog(ctrl)
	catalog.EXPECT().LookupMany(gomock.Any(), []string{"haircut"}).Return([]catalogModel.Service{service("haircut", "20", 30)}, nil)

	total, err := pricing.New(catalog).ComputeTotal(context.Background(), []string{"haircut"})

	require.NoError(t, err)
	assert.Equal(t, "20.00", total.StringFixed(2))
}
