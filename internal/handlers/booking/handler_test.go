package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"salon/infras/otel/mocks"
	bookingMocks "salon/internal/domains/booking/mocks"
	"salon/internal/domains/booking/model"
	"salon/internal/domains/booking/model/dto"
	"salon/internal/handlers/booking"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type body struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
}

func serve(t *testing.T, scheduler *bookingMocks.MockScheduler, method, target, payload, userID string) (*httptest.ResponseRecorder, body) {
	t.Helper()

	handler := booking.New(scheduler, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	request := httptest.NewRequest(method, target, strings.NewReader(payload))
	if userID != "" {
		ctx := context.WithValue(request.Context(), constant.ContextKeyUserID, userID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleCustomer)
		request = request.WithContext(ctx)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded body
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())

	return recorder, decoded
}

func TestCreateBooking(t *testing.T) {
	valid := `{"customerId":"cust-1","serviceIds":["haircut"],"bookingDate":"2025-01-10","startTime":"09:00","notes":"first visit"}`

	tests := []struct {
		name      string
		payload   string
		setupMock func(scheduler *bookingMocks.MockScheduler)
		code      int
		kind      string
	}{
		{
			name:    "created",
			payload: valid,
			setupMock: func(scheduler *bookingMocks.MockScheduler) {
				expected := dto.CreateBookingRequest{
					CustomerID:  "cust-1",
					ServiceIDs:  []string{"haircut"},
					BookingDate: "2025-01-10",
					StartTime:   "09:00",
					Notes:       "first visit",
				}
				scheduler.EXPECT().Create(gomock.Any(), expected).Return(dto.BookingResponse{ID: "b-1", TotalPrice: "20.00", EndTime: "09:30"}, nil)
			},
			code: http.StatusCreated,
		},
		{
			name:      "missing services",
			payload:   `{"bookingDate":"2025-01-10","startTime":"09:00"}`,
			setupMock: func(*bookingMocks.MockScheduler) {},
			code:      http.StatusBadRequest,
		},
		{
			name:      "malformed start time",
			payload:   `{"serviceIds":["haircut"],"bookingDate":"2025-01-10","startTime":"9am"}`,
			setupMock: func(*bookingMocks.MockScheduler) {},
			code:      http.StatusBadRequest,
		},
		{
			name:      "malformed json",
			payload:   `{"serviceIds":`,
			setupMock: func(*bookingMocks.MockScheduler) {},
			code:      http.StatusBadRequest,
		},
		{
			name:    "conflict",
			payload: valid,
			setupMock: func(scheduler *bookingMocks.MockScheduler) {
				scheduler.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.Conflict("slot taken"))
			},
			code: http.StatusConflict,
			kind: string(failure.KindBookingConflict),
		},
		{
			name:    "unknown service",
			payload: valid,
			setupMock: func(scheduler *bookingMocks.MockScheduler) {
				scheduler.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, failure.NotFound("service not found: haircut"))
			},
			code: http.StatusNotFound,
			kind: string(failure.KindResourceNotFound),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
			tt.setupMock(scheduler)

			recorder, res := serve(t, scheduler, http.MethodPost, "/v1/bookings", tt.payload, "cust-1")

			assert.Equal(t, tt.code, recorder.Code)
			assert.Equal(t, tt.kind, res.Kind)

			if tt.code == http.StatusCreated {
				var created dto.BookingResponse
				require.NoError(t, json.Unmarshal(res.Data, &created))
				assert.Equal(t, "b-1", created.ID)
				assert.Equal(t, "09:30", created.EndTime)
			}
		})
	}
}

func TestGetBookings(t *testing.T) {
	t.Run("status filter is parsed case-insensitively", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		confirmed := model.StatusConfirmed

		scheduler.EXPECT().GetAll(gomock.Any(), gomock.Any(), &confirmed).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ *model.Status) (dto.GetBookingsResponse, error) {
				assert.Equal(t, 2, params.Page)

				return dto.GetBookingsResponse{TotalData: 1}, nil
			})

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings?status=confirmed&page=2", "", "admin-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))

		recorder, res := serve(t, scheduler, http.MethodGet, "/v1/bookings?status=ARCHIVED", "", "admin-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(failure.KindInvalidOperation), res.Kind)
	})

	t.Run("no status lists everything", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Nil()).Return(dto.GetBookingsResponse{}, nil)

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings", "", "admin-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestReadRoutes(t *testing.T) {
	t.Run("my bookings use the caller id", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().GetByCustomer(gomock.Any(), "cust-1").Return([]dto.BookingResponse{{ID: "b-1"}}, nil)

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings/my-bookings", "", "cust-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("my bookings need a caller", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings/my-bookings", "", "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("by date", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().GetByDate(gomock.Any(), "2025-01-10").Return([]dto.BookingResponse{}, nil)

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings/date/2025-01-10", "", "staff-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("by customer", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().GetByCustomer(gomock.Any(), "cust-9").Return(nil, failure.ResourceRestrictedError)

		recorder, res := serve(t, scheduler, http.MethodGet, "/v1/bookings/customer/cust-9", "", "cust-1")

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, string(failure.KindAccessDenied), res.Kind)
	})

	t.Run("by id when the store times out", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().Get(gomock.Any(), "b-1").Return(dto.BookingResponse{}, failure.Unavailable("booking store did not respond in time"))

		recorder, _ := serve(t, scheduler, http.MethodGet, "/v1/bookings/b-1", "", "cust-1")

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Equal(t, "1", recorder.Header().Get(constant.RequestHeaderRetryAfter))
	})
}

func TestWriteRoutes(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().Update(gomock.Any(), "b-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req dto.UpdateBookingRequest) (dto.BookingResponse, error) {
				assert.Equal(t, []string{"haircut"}, req.ServiceIDs)
				assert.Nil(t, req.Notes)

				return dto.BookingResponse{ID: "b-1", TotalPrice: "20.00"}, nil
			})

		payload := `{"serviceIds":["haircut"],"bookingDate":"2025-01-10","startTime":"10:00"}`
		recorder, _ := serve(t, scheduler, http.MethodPut, "/v1/bookings/b-1", payload, "cust-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("update of a terminal booking", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().Update(gomock.Any(), "b-1", gomock.Any()).
			Return(dto.BookingResponse{}, failure.InvalidOperation("booking in status COMPLETED cannot be modified"))

		payload := `{"serviceIds":["haircut"],"bookingDate":"2025-01-10","startTime":"10:00"}`
		recorder, res := serve(t, scheduler, http.MethodPut, "/v1/bookings/b-1", payload, "cust-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, string(failure.KindInvalidOperation), res.Kind)
	})

	t.Run("status change", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().ChangeStatus(gomock.Any(), "b-1", model.StatusConfirmed).Return(dto.BookingResponse{ID: "b-1", Status: "CONFIRMED"}, nil)

		recorder, _ := serve(t, scheduler, http.MethodPut, "/v1/bookings/b-1/status?status=CONFIRMED", "", "staff-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("illegal status change", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().ChangeStatus(gomock.Any(), "b-1", model.StatusPending).
			Return(dto.BookingResponse{}, &model.TransitionError{From: model.StatusConfirmed, To: model.StatusPending})

		recorder, res := serve(t, scheduler, http.MethodPut, "/v1/bookings/b-1/status?status=PENDING", "", "staff-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "cannot change booking status from CONFIRMED to PENDING", res.Error)
	})

	t.Run("status is required", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))

		recorder, _ := serve(t, scheduler, http.MethodPut, "/v1/bookings/b-1/status", "", "staff-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("delete", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().Delete(gomock.Any(), "b-1").Return(nil)

		recorder, res := serve(t, scheduler, http.MethodDelete, "/v1/bookings/b-1", "", "cust-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Booking deleted successfully", res.Message)
	})

	t.Run("delete of a completed booking", func(t *testing.T) {
		scheduler := bookingMocks.NewMockScheduler(gomock.NewController(t))
		scheduler.EXPECT().Delete(gomock.Any(), "b-1").Return(failure.InvalidOperation("booking in status COMPLETED cannot be deleted"))

		recorder, _ := serve(t, scheduler, http.MethodDelete, "/v1/bookings/b-1", "", "cust-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
