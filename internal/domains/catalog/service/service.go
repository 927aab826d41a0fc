package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/domains/catalog/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/metrics"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetService    = "service:get"
	cacheGetAllService = "service:gets"
)

// Catalog resolves service prices and durations. Lookups are cached per id for
// BOOKING_CATALOG_CACHE_TTL_SECONDS; a price change becomes visible once its entry expires.
type Catalog interface {
	Lookup(ctx context.Context, id string) (model.Service, error)
	LookupMany(ctx context.Context, ids []string) ([]model.Service, error)
	Resolve(ctx context.Context, ids []string) (map[string]model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetServicesResponse, error)
}

type serviceImpl struct {
	repo  repository.Service
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Service, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Lookup(ctx context.Context, id string) (model.Service, error) {
	services, err := s.LookupMany(ctx, []string{id})
	if err != nil {
		return model.Service{}, err
	}

	return services[0], nil
}

// LookupMany returns the active services in the order of ids, or a ResourceNotFound failure naming every id that did not resolve.
func (s *serviceImpl) LookupMany(ctx context.Context, ids []string) (res []model.Service, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.LookupMany")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	found, err := s.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	var missing []string

	res = make([]model.Service, 0, len(ids))

	for _, id := range ids {
		service, ok := found[id]
		if !ok || !service.Active {
			missing = append(missing, id)

			continue
		}

		res = append(res, service)
	}

	if len(missing) > 0 {
		return nil, failure.NotFound("service not found: " + strings.Join(missing, ", "))
	}

	return res, nil
}

// Resolve returns every known service among ids, active or not. Unknown ids are absent from the map.
// Cache misses are loaded with one query.
func (s *serviceImpl) Resolve(ctx context.Context, ids []string) (res map[string]model.Service, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = make(map[string]model.Service, len(ids))

	var misses []string

	for _, id := range ids {
		if _, ok := res[id]; ok || slices.Contains(misses, id) {
			continue
		}

		var service model.Service
		if err := s.cache.Get(ctx, shared.BuildCacheKey(cacheGetService, id), &service); err == nil {
			res[id] = service

			continue
		}

		misses = append(misses, id)
	}

	metrics.RecordCacheLookup(len(res), len(misses))
	scope.SetAttributes(map[string]any{"catalog.hits": len(res), "catalog.misses": len(misses)})

	if len(misses) == 0 {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    misses,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	services, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Strs("ids", misses).Msg("failed to load services")

		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	for _, service := range services {
		res[service.ID] = service

		if err := s.cache.Save(ctx, shared.BuildCacheKey(cacheGetService, service.ID), service, s.cfg.Booking.CatalogCacheTTLSeconds); err != nil {
			log.Warn().Err(err).Str("service_id", service.ID).Msg("failed to cache service")
		}
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".catalog.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActive,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllService, params, filter), s.cfg.Booking.CatalogCacheTTLSeconds,
		func(ctx context.Context) (res dto.GetServicesResponse, err error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count services")

				return res, fmt.Errorf("failed to count services: %w", err)
			}

			services, err := s.repo.GetAll(ctx, params, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get services")

				return res, fmt.Errorf("failed to get services: %w", err)
			}

			res.FromModels(services, total, params.Limit)

			return res, nil
		})
}
