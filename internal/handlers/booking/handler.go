package booking

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/booking/access"
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/model/dto"
	"salon/internal/domains/booking/service"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Scheduler
	otel    otel.Otel
}

func New(service service.Scheduler, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/my-bookings", handler.GetMyBookings)
		routerGroup.Get("/date/{date}", handler.GetBookingsByDate)
		routerGroup.Get("/customer/{customerId}", handler.GetCustomerBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Put("/{id}", handler.UpdateBooking)
		routerGroup.Put("/{id}/status", handler.ChangeBookingStatus)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

func fail(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(writer, err)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book one or more services. Customers book for themselves; staff and administrators may book for any customer and assign staff.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		log.Info().Err(err).Msg("invalid create booking request")
		fail(writer, scope, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	scope.AddEvent("Booking " + booking.ID + " created")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists every booking, optionally filtered by status.
// @Summary Get all bookings
// @Description Paginated listing for staff and administrators.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "PENDING, CONFIRMED, COMPLETED, CANCELLED or NO_SHOW"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	var status *model.Status

	if value := request.URL.Query().Get(constant.RequestParamStatus); value != "" {
		parsed, err := model.ParseStatus(value)
		if err != nil {
			fail(writer, scope, err)

			return
		}

		status = &parsed
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, status)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetMyBookings lists the bookings of the calling user.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.BookingResponse] "List of user's bookings"
// @Failure 401 {object} response.Error
// @Router /v1/bookings/my-bookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	principal := access.PrincipalFromContext(ctx)
	if principal.Anonymous() {
		fail(writer, scope, failure.Unauthorized("unauthorized"))

		return
	}

	bookings, err := handler.service.GetByCustomer(ctx, principal.UserID)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBookingsByDate lists every booking of a calendar day.
// @Summary Get bookings by date
// @Tags Booking
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "Bookings of the day"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/bookings/date/{date} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingsByDate(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingsByDate")
	defer scope.End()

	bookings, err := handler.service.GetByDate(ctx, chi.URLParam(request, constant.RequestParamDate))
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetCustomerBookings lists the bookings of one customer.
// @Summary Get bookings of a customer
// @Tags Booking
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "Bookings of the customer"
// @Failure 403 {object} response.Error
// @Router /v1/bookings/customer/{customerId} [get]
// @Security BearerAuth
func (handler *Handler) GetCustomerBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerBookings")
	defer scope.End()

	bookings, err := handler.service.GetByCustomer(ctx, chi.URLParam(request, constant.RequestParamCustomerID))
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateBooking reschedules a booking and recomputes its price.
// @Summary Update a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		log.Info().Err(err).Msg("invalid update booking request")
		fail(writer, scope, err)

		return
	}

	booking, err := handler.service.Update(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// ChangeBookingStatus moves a booking through its lifecycle.
// @Summary Change booking status
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param status query string true "Target status"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/status [put]
// @Security BearerAuth
func (handler *Handler) ChangeBookingStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangeBookingStatus")
	defer scope.End()

	status, err := model.ParseStatus(request.URL.Query().Get(constant.RequestParamStatus))
	if err != nil {
		fail(writer, scope, err)

		return
	}

	booking, err := handler.service.ChangeStatus(ctx, chi.URLParam(request, constant.RequestParamID), status)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// DeleteBooking removes a booking that is still pending or confirmed.
// @Summary Delete a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Booking deleted successfully")
}
