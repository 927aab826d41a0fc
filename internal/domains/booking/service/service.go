package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/booking/access"
	"salon/internal/domains/booking/conflict"
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/model/dto"
	"salon/internal/domains/booking/pricing"
	"salon/internal/domains/booking/repository"
	catalog "salon/internal/domains/catalog/service"
	userRepo "salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/metrics"
	"salon/shared/timezone"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking = "booking:get"
)

const (
	operationCreate        = "create"
	operationUpdate        = "update"
	operationChangeStatus  = "change_status"
	operationDelete        = "delete"
	operationGet           = "get"
	operationGetByCustomer = "get_by_customer"
	operationGetByDate     = "get_by_date"
	operationGetAll        = "get_all"
)

var (
	errPastAppointment = failure.InvalidBooking("appointment must not be in the past")
	errStoreTimeout    = failure.Unavailable("booking store did not respond in time, retry later")
	errNotFound        = failure.NotFound("booking not found")
)

// Scheduler validates, prices and places bookings, and governs their status lifecycle.
// The acting principal is read from ctx.
type Scheduler interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	ChangeStatus(ctx context.Context, id string, status model.Status) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByCustomer(ctx context.Context, customerID string) ([]dto.BookingResponse, error)
	GetByDate(ctx context.Context, date string) ([]dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, status *model.Status) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo    repository.Booking
	users   userRepo.User
	catalog catalog.Catalog
	pricing pricing.Calculator
	gate    access.Gate
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	clock   timezone.Clock
}

func New(
	repo repository.Booking,
	users userRepo.User,
	catalog catalog.Catalog,
	pricing pricing.Calculator,
	gate access.Gate,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock timezone.Clock,
) Scheduler {
	return &serviceImpl{
		repo:    repo,
		users:   users,
		catalog: catalog,
		pricing: pricing,
		gate:    gate,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		clock:   clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { s.observe(operationCreate, err); scope.TraceIfError(err) }()

	principal := access.PrincipalFromContext(ctx)

	customerID := req.CustomerID
	if customerID == constant.Empty {
		customerID = principal.UserID
	}

	if !s.gate.CanActFor(principal, customerID) {
		return res, failure.Forbidden("you may only book for yourself")
	}

	staffID := normalizeStaff(req.StaffID)
	if staffID != nil && !s.gate.IsPrivileged(principal) {
		return res, failure.Forbidden("only staff or administrators may assign staff")
	}

	at, err := req.AppointmentTime()
	if err != nil {
		return res, failure.InvalidBooking(err.Error())
	}

	serviceIDs := model.NormalizeServiceIDs(req.ServiceIDs)
	if err = s.validateSchedule(at, serviceIDs); err != nil {
		return res, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err = s.ensureCustomer(storeCtx, customerID); err != nil {
		return res, err
	}

	if err = s.ensureStaff(storeCtx, staffID); err != nil {
		return res, err
	}

	quote, err := s.pricing.Quote(storeCtx, serviceIDs)
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to price booking")
	}

	req.StaffID = staffID
	booking := req.ToModel(customerID, at, quote.Total, principal.UserID)

	scope.SetAttributes(map[string]any{"booking.id": booking.ID, "booking.resource": booking.Resource()})

	err = s.repo.WithSlotLock(storeCtx, model.SlotKey(booking.Resource(), booking.Day()), func(ctx context.Context) error {
		if err := s.ensureFree(ctx, booking, quote.Duration); err != nil {
			return err
		}

		return s.repo.Insert(ctx, booking)
	})
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to create booking")
	}

	log.Info().Str("booking_id", booking.ID).Str("customer_id", customerID).Msg("booking created")

	res.FromModel(booking, quote.Duration)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { s.observe(operationUpdate, err); scope.TraceIfError(err) }()

	scope.SetAttribute("booking.id", id)

	principal := access.PrincipalFromContext(ctx)

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(storeCtx, id)
	if err != nil {
		return res, err
	}

	if !s.gate.CanWrite(principal, current) {
		return res, failure.ForbiddenError
	}

	if err = editable(current, "modified"); err != nil {
		return res, err
	}

	if req.CustomerID != constant.Empty && req.CustomerID != current.CustomerID {
		return res, failure.InvalidOperation("the customer of a booking cannot be changed")
	}

	staffID := current.StaffID
	if req.StaffID != nil {
		staffID = normalizeStaff(req.StaffID)

		if !sameStaff(staffID, current.StaffID) {
			if !s.gate.IsPrivileged(principal) {
				return res, failure.Forbidden("only staff or administrators may assign staff")
			}

			if err = s.ensureStaff(storeCtx, staffID); err != nil {
				return res, err
			}
		}
	}

	at, err := req.AppointmentTime()
	if err != nil {
		return res, failure.InvalidBooking(err.Error())
	}

	serviceIDs := model.NormalizeServiceIDs(req.ServiceIDs)
	if err = s.validateSchedule(at, serviceIDs); err != nil {
		return res, err
	}

	quote, err := s.pricing.Quote(storeCtx, serviceIDs)
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to price booking")
	}

	updated := current
	updated.StaffID = staffID
	updated.ServiceIDs = serviceIDs
	updated.AppointmentTime = at
	updated.TotalPrice = quote.Total
	updated.ModifiedAt = timezone.Now()
	updated.ModifiedBy = principal.UserID

	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	keys := []string{
		model.SlotKey(current.Resource(), current.Day()),
		model.SlotKey(updated.Resource(), updated.Day()),
	}

	err = s.withSlots(storeCtx, keys, func(ctx context.Context) error {
		fresh, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if err := editable(fresh, "modified"); err != nil {
			return err
		}

		updated.Status = fresh.Status

		if err := s.ensureFree(ctx, updated, quote.Duration); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldStaffID:         updated.StaffID,
			model.FieldServiceIDs:      updated.ServiceIDs,
			model.FieldAppointmentTime: updated.AppointmentTime,
			model.FieldTotalPrice:      updated.TotalPrice,
			model.FieldNotes:           updated.Notes,
			constant.FieldModifiedAt:   updated.ModifiedAt,
			constant.FieldModifiedBy:   updated.ModifiedBy,
		}

		return s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to update booking")
	}

	s.evict(ctx, id)

	res.FromModel(updated, quote.Duration)

	return res, nil
}

func (s *serviceImpl) ChangeStatus(ctx context.Context, id string, status model.Status) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ChangeStatus")
	defer scope.End()
	defer func() { s.observe(operationChangeStatus, err); scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"booking.id": id, "booking.status": status.String()})

	principal := access.PrincipalFromContext(ctx)
	if !s.gate.IsPrivileged(principal) {
		return res, failure.ForbiddenError
	}

	if !status.IsValid() {
		return res, failure.InvalidOperation("unknown booking status: " + status.String())
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(storeCtx, id)
	if err != nil {
		return res, err
	}

	// Rejected before locking; the fresh read below decides.
	if err = current.Status.ValidateTransition(status); err != nil {
		return res, err
	}

	var from model.Status

	err = s.repo.WithSlotLock(storeCtx, model.SlotKey(current.Resource(), current.Day()), func(ctx context.Context) error {
		fresh, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if err := fresh.Status.ValidateTransition(status); err != nil {
			return err
		}

		from = fresh.Status
		current = fresh
		current.Status = status
		current.ModifiedAt = timezone.Now()
		current.ModifiedBy = principal.UserID

		fields := map[string]any{
			model.FieldStatus:        current.Status,
			constant.FieldModifiedAt: current.ModifiedAt,
			constant.FieldModifiedBy: current.ModifiedBy,
		}

		return s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to change booking status")
	}

	metrics.RecordTransition(from.String(), status.String())
	log.Info().Str("booking_id", id).Stringer("from", from).Stringer("to", status).Msg("booking status changed")

	s.evict(ctx, id)

	durations, err := s.durations(storeCtx, []model.Booking{current})
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to resolve booking services")
	}

	res.FromModel(current, durations[id])

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { s.observe(operationDelete, err); scope.TraceIfError(err) }()

	scope.SetAttribute("booking.id", id)

	principal := access.PrincipalFromContext(ctx)

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	current, err := s.load(storeCtx, id)
	if err != nil {
		return err
	}

	if !s.gate.CanWrite(principal, current) {
		return failure.ForbiddenError
	}

	if err = editable(current, "deleted"); err != nil {
		return err
	}

	err = s.repo.WithSlotLock(storeCtx, model.SlotKey(current.Resource(), current.Day()), func(ctx context.Context) error {
		fresh, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if err := editable(fresh, "deleted"); err != nil {
			return err
		}

		return s.repo.DeleteByID(ctx, id)
	})
	if err != nil {
		return s.storeError(storeCtx, err, "failed to delete booking")
	}

	s.evict(ctx, id)

	log.Info().Str("booking_id", id).Msg("booking deleted")

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { s.observe(operationGet, err); scope.TraceIfError(err) }()

	principal := access.PrincipalFromContext(ctx)

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	var booking model.Booking
	if err = s.cache.Get(ctx, cacheKey, &booking); err != nil {
		if booking, err = s.load(storeCtx, id); err != nil {
			return res, err
		}

		if err := s.cache.Save(ctx, cacheKey, booking, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("failed to cache booking")
		}
	}

	if !s.gate.CanRead(principal, booking) {
		return res, failure.ForbiddenError
	}

	durations, err := s.durations(storeCtx, []model.Booking{booking})
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to resolve booking services")
	}

	res.FromModel(booking, durations[booking.ID])

	return res, nil
}

// GetByCustomer lists the customer's bookings the principal may read, latest first.
func (s *serviceImpl) GetByCustomer(ctx context.Context, customerID string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByCustomer")
	defer scope.End()
	defer func() { s.observe(operationGetByCustomer, err); scope.TraceIfError(err) }()

	principal := access.PrincipalFromContext(ctx)
	if !s.gate.CanActFor(principal, customerID) {
		return nil, failure.ResourceRestrictedError
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	bookings, err := s.repo.FindByCustomer(storeCtx, customerID)
	if err != nil {
		return nil, s.storeError(storeCtx, err, "failed to get customer bookings")
	}

	bookings = slices.DeleteFunc(bookings, func(booking model.Booking) bool {
		return !s.gate.CanRead(principal, booking)
	})

	return s.responses(storeCtx, bookings)
}

// GetByDate lists every booking of the calendar date, in any status, ordered by start.
func (s *serviceImpl) GetByDate(ctx context.Context, date string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByDate")
	defer scope.End()
	defer func() { s.observe(operationGetByDate, err); scope.TraceIfError(err) }()

	if !s.gate.IsPrivileged(access.PrincipalFromContext(ctx)) {
		return nil, failure.ForbiddenError
	}

	day, err := timezone.Day(date)
	if err != nil {
		return nil, failure.InvalidBooking(err.Error())
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	bookings, err := s.repo.FindByDateRangeAndStatusIn(storeCtx, day, day.AddDate(0, 0, 1), nil, constant.Empty)
	if err != nil {
		return nil, s.storeError(storeCtx, err, "failed to get bookings by date")
	}

	return s.responses(storeCtx, bookings)
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, status *model.Status) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { s.observe(operationGetAll, err); scope.TraceIfError(err) }()

	if !s.gate.IsPrivileged(access.PrincipalFromContext(ctx)) {
		return res, failure.ForbiddenError
	}

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if status != nil {
		if !status.IsValid() {
			return res, failure.InvalidOperation("unknown booking status: " + status.String())
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Value:    status.String(),
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	total, err := s.repo.Count(storeCtx, filter)
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to count bookings")
	}

	bookings, err := s.repo.GetAll(storeCtx, params, filter)
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to get bookings")
	}

	durations, err := s.durations(storeCtx, bookings)
	if err != nil {
		return res, s.storeError(storeCtx, err, "failed to resolve booking services")
	}

	res.FromModels(bookings, durations, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) validateSchedule(at time.Time, serviceIDs []string) error {
	if len(serviceIDs) == 0 {
		return pricing.ErrNoServices
	}

	if limit := s.cfg.Booking.MaxServicesPerBooking; limit > 0 && len(serviceIDs) > limit {
		return failure.InvalidBooking(fmt.Sprintf("a booking may hold at most %d services", limit))
	}

	if at.Before(s.clock()) {
		return errPastAppointment
	}

	return nil
}

// ensureFree rejects booking when it overlaps an active booking of the same resource and day.
func (s *serviceImpl) ensureFree(ctx context.Context, booking model.Booking, duration time.Duration) error {
	day := timezone.StartOfDay(booking.AppointmentTime)

	existing, err := s.repo.FindByDateRangeAndStatusIn(ctx, day, day.AddDate(0, 0, 1), model.ActiveStatuses(), booking.Resource())
	if err != nil {
		return fmt.Errorf("failed to load bookings of %s: %w", booking.Day(), err)
	}

	durations, err := s.durations(ctx, existing)
	if err != nil {
		return err
	}

	occupancies := make([]conflict.Occupancy, len(existing))
	for i, other := range existing {
		occupancies[i] = conflict.Occupancy{
			ID:       other.ID,
			Status:   other.Status,
			Start:    other.AppointmentTime,
			Duration: durations[other.ID],
		}
	}

	blocking, found := conflict.FirstConflict(booking.AppointmentTime, booking.AppointmentTime.Add(duration), occupancies, booking.ID)
	if !found {
		return nil
	}

	return failure.Conflict(fmt.Sprintf(
		"the requested slot overlaps another booking from %s to %s",
		timezone.Format(blocking.Start, constant.ClockFormat),
		timezone.Format(blocking.End(), constant.ClockFormat),
	))
}

// durations resolves every service of bookings in one catalog batch and returns each booking's length.
func (s *serviceImpl) durations(ctx context.Context, bookings []model.Booking) (map[string]time.Duration, error) {
	res := make(map[string]time.Duration, len(bookings))
	if len(bookings) == 0 {
		return res, nil
	}

	var ids []string
	for _, booking := range bookings {
		ids = append(ids, booking.ServiceIDs...)
	}

	slices.Sort(ids)

	services, err := s.catalog.Resolve(ctx, slices.Compact(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve services: %w", err)
	}

	for _, booking := range bookings {
		var total time.Duration

		for _, id := range booking.ServiceIDs {
			service, ok := services[id]
			if !ok {
				log.Warn().Str("booking_id", booking.ID).Str("service_id", id).Msg("booked service no longer in catalog")

				continue
			}

			total += service.Duration()
		}

		res[booking.ID] = total
	}

	return res, nil
}

func (s *serviceImpl) responses(ctx context.Context, bookings []model.Booking) ([]dto.BookingResponse, error) {
	durations, err := s.durations(ctx, bookings)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to resolve booking services")
	}

	res := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromModel(booking, durations[booking.ID])
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if !found {
		return booking, errNotFound
	}

	return booking, nil
}

// ensureCustomer accepts any active account as the owner of a booking.
func (s *serviceImpl) ensureCustomer(ctx context.Context, id string) error {
	exists, err := s.users.ExistsWithRole(ctx, id)
	if err != nil {
		return s.storeError(ctx, err, "failed to check customer")
	}

	if !exists {
		return failure.NotFound("customer not found: " + id)
	}

	return nil
}

func (s *serviceImpl) ensureStaff(ctx context.Context, staffID *string) error {
	if staffID == nil {
		return nil
	}

	exists, err := s.users.ExistsWithRole(ctx, *staffID, constant.RoleStaff)
	if err != nil {
		return s.storeError(ctx, err, "failed to check staff")
	}

	if !exists {
		return failure.NotFound("staff not found: " + *staffID)
	}

	return nil
}

// withSlots holds the slot locks of keys in a fixed order so two updates never wait on each other.
func (s *serviceImpl) withSlots(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	for i := len(keys) - 1; i >= 0; i-- {
		next, key := fn, keys[i]
		fn = func(ctx context.Context) error {
			return s.repo.WithSlotLock(ctx, key, next)
		}
	}

	return fn(ctx)
}

func (s *serviceImpl) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Booking.StoreTimeoutSeconds <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, time.Duration(s.cfg.Booking.StoreTimeoutSeconds)*time.Second)
}

// storeError passes failures through, turns an expired store deadline into a retryable failure
// and wraps everything else.
func (s *serviceImpl) storeError(ctx context.Context, err error, msg string) error {
	var fail *failure.Failure

	switch {
	case errors.As(err, &fail):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warn().Err(err).Msg(msg)

		return errStoreTimeout
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func (s *serviceImpl) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Warn().Err(err).Str("booking_id", id).Msg("failed to evict booking from cache")
	}
}

// observe counts the outcome. Expected failures are logged at info, anything else at error.
func (s *serviceImpl) observe(operation string, err error) {
	if err == nil {
		metrics.RecordBooking(operation, metrics.OutcomeSuccess)

		return
	}

	outcome := strings.ToLower(string(failure.GetKind(err)))

	switch {
	case failure.IsExpected(err):
		if outcome == constant.Empty {
			outcome = "rejected"
		}

		log.Info().Err(err).Str("operation", operation).Str("outcome", outcome).Msg("booking request rejected")
	case failure.GetKind(err) == failure.KindUnavailable:
		log.Warn().Err(err).Str("operation", operation).Msg("booking store unavailable")
	default:
		outcome = "error"

		log.Error().Err(err).Str("operation", operation).Msg("booking request failed")
	}

	metrics.RecordBooking(operation, outcome)
}

func editable(booking model.Booking, action string) error {
	if booking.Status.IsActive() {
		return nil
	}

	return failure.InvalidOperation(fmt.Sprintf("booking in status %s cannot be %s", booking.Status, action))
}

func normalizeStaff(staffID *string) *string {
	if staffID == nil || strings.TrimSpace(*staffID) == constant.Empty {
		return nil
	}

	id := strings.TrimSpace(*staffID)

	return &id
}

func sameStaff(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
