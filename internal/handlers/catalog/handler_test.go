package catalog_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"salon/infras/otel/mocks"
	catalogMocks "salon/internal/domains/catalog/mocks"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/handlers/catalog"
	"salon/shared/failure"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serve(t *testing.T, svc *catalogMocks.MockCatalog, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := catalog.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestGetServiceByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := catalogMocks.NewMockCatalog(gomock.NewController(t))
		svc.EXPECT().Lookup(gomock.Any(), "haircut").Return(model.Service{
			ID:              "haircut",
			Name:            "Haircut",
			Price:           decimal.RequireFromString("20"),
			DurationMinutes: 30,
			Active:          true,
		}, nil)

		recorder := serve(t, svc, "/v1/services/haircut")
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data dto.ServiceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

		assert.Equal(t, "20.00", body.Data.Price)
		assert.Equal(t, 30, body.Data.DurationMinutes)
	})

	t.Run("unknown", func(t *testing.T) {
		svc := catalogMocks.NewMockCatalog(gomock.NewController(t))
		svc.EXPECT().Lookup(gomock.Any(), "ghost").Return(model.Service{}, failure.NotFound("service not found: ghost"))

		recorder := serve(t, svc, "/v1/services/ghost")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestGetServices(t *testing.T) {
	t.Run("listed", func(t *testing.T) {
		svc := catalogMocks.NewMockCatalog(gomock.NewController(t))
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(dto.GetServicesResponse{
			Services:  []dto.ServiceResponse{{ID: "haircut", Price: "20.00"}},
			TotalPage: 1,
			TotalData: 1,
		}, nil)

		recorder := serve(t, svc, "/v1/services?page=1&limit=10")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"total_data":1`)
	})

	t.Run("store failure is hidden", func(t *testing.T) {
		svc := catalogMocks.NewMockCatalog(gomock.NewController(t))
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(dto.GetServicesResponse{}, errors.New("connection reset"))

		recorder := serve(t, svc, "/v1/services")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "connection reset")
	})
}
