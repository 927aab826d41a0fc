package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"salon/infras/otel/mocks"
	userMocks "salon/internal/domains/user/mocks"
	"salon/internal/domains/user/model/dto"
	"salon/internal/handlers/user"
	"salon/shared/constant"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func serve(svc *userMocks.MockUser, method, target, payload, userID string) *httptest.ResponseRecorder {
	handler := user.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	request := httptest.NewRequest(method, target, strings.NewReader(payload))
	if userID != "" {
		request = request.WithContext(context.WithValue(request.Context(), constant.ContextKeyUserID, userID))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func TestGetUsers(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		setupMock func(svc *userMocks.MockUser)
		code      int
	}{
		{
			name:   "all levels",
			target: "/v1/users",
			setupMock: func(svc *userMocks.MockUser) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), "").Return(dto.GetUsersResponse{}, nil)
			},
			code: http.StatusOK,
		},
		{
			name:   "one level",
			target: "/v1/users?level=admin",
			setupMock: func(svc *userMocks.MockUser) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), constant.RoleAdmin).Return(dto.GetUsersResponse{}, nil)
			},
			code: http.StatusOK,
		},
		{
			name:      "unknown level",
			target:    "/v1/users?level=owner",
			setupMock: func(*userMocks.MockUser) {},
			code:      http.StatusBadRequest,
		},
		{
			name:   "staff directory",
			target: "/v1/users/staff",
			setupMock: func(svc *userMocks.MockUser) {
				svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), constant.RoleStaff).Return(dto.GetUsersResponse{}, nil)
			},
			code: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := userMocks.NewMockUser(gomock.NewController(t))
			tt.setupMock(svc)

			recorder := serve(svc, http.MethodGet, tt.target, "", "admin-1")

			assert.Equal(t, tt.code, recorder.Code)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Run("caller edits themselves", func(t *testing.T) {
		svc := userMocks.NewMockUser(gomock.NewController(t))
		svc.EXPECT().UpdateProfile(gomock.Any(), "cust-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, req dto.UpdateProfileRequest) error {
				assert.Equal(t, "dry", *req.SkinType)

				return nil
			})

		recorder := serve(svc, http.MethodPatch, "/v1/users/me", `{"skin_type":"dry"}`, "cust-1")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown skin type", func(t *testing.T) {
		svc := userMocks.NewMockUser(gomock.NewController(t))

		recorder := serve(svc, http.MethodPatch, "/v1/users/me", `{"skin_type":"scaly"}`, "cust-1")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := userMocks.NewMockUser(gomock.NewController(t))

		recorder := serve(svc, http.MethodPatch, "/v1/users/me", `{"full_name":"Alice"}`, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestDeactivateUser(t *testing.T) {
	svc := userMocks.NewMockUser(gomock.NewController(t))
	svc.EXPECT().Deactivate(gomock.Any(), "staff-1").Return(nil)

	recorder := serve(svc, http.MethodDelete, "/v1/users/staff-1", "", "admin-1")

	assert.Equal(t, http.StatusOK, recorder.Code)
}
