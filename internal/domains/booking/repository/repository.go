package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/booking/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/logger"
	gRepo "salon/shared/repository"
	"time"
)

const slotLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	FindByID(ctx context.Context, id string) (model.Booking, bool, error)
	FindByCustomer(ctx context.Context, customerID string) ([]model.Booking, error)
	// FindByDateRangeAndStatusIn lists bookings starting in [from, to) on resource's calendar.
	// An empty resource spans every calendar.
	FindByDateRangeAndStatusIn(ctx context.Context, from, to time.Time, statuses []model.Status, resource string) ([]model.Booking, error)
	DeleteByID(ctx context.Context, id string) error
	// WithSlotLock runs fn in a transaction holding the advisory lock for key.
	// Concurrent callers with the same key run one after the other.
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (model.Booking, bool, error) {
	booking, err := r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return model.Booking{}, false, err
	}

	return booking, booking.ID != "", nil
}

func (r *repositoryImpl) FindByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	params := gDto.QueryParams{SortBy: model.FieldAppointmentTime, SortDir: gDto.SortDirDesc}

	return r.GetAll(ctx, params, shared.FilterByID(customerID, model.FieldCustomerID, model.TableName))
}

func (r *repositoryImpl) FindByDateRangeAndStatusIn(
	ctx context.Context,
	from, to time.Time,
	statuses []model.Status,
	resource string,
) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "range_from",
				Field:    model.FieldAppointmentTime,
				Value:    from,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "range_to",
				Field:    model.FieldAppointmentTime,
				Value:    to,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		},
	}

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = status.String()
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Value:    values,
			Operator: gDto.FilterOperatorIn,
			Table:    model.TableName,
		})
	}

	switch resource {
	case constant.Empty:
	case model.SalonResource:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStaffID,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		})
	default:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStaffID,
			Value:    resource,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	params := gDto.QueryParams{SortBy: model.FieldAppointmentTime, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, id string) error {
	return r.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (r *repositoryImpl) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.WithSlotLock")
	defer scope.End()

	scope.SetAttribute("lock.key", key)

	return r.db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := r.db.Writer(ctx).ExecContext(ctx, slotLockQuery, key); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to acquire slot lock %s: %w", key, err)
		}

		return fn(ctx)
	})
}
