package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"salon/config"
	"salon/infras/jwt"
	jwtMocks "salon/infras/jwt/mocks"
	"salon/infras/otel/mocks"
	"salon/permissions"
	"salon/shared/constant"
	"salon/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(tokens jwt.JWT) http.Handler {
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	auth := middleware.NewAuthRoleMiddleware(tokens, mocks.NewOtel(), permissions.Get(), cfg)

	whoami := func(writer http.ResponseWriter, request *http.Request) {
		userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
		role, _ := request.Context().Value(constant.ContextKeyUserRole).(string)

		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(userID + "/" + role))
	}

	router := chi.NewRouter()
	router.Use(auth.APIKey, auth.Auth, auth.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", whoami)
			r.Post("/", whoami)
		})
		r.Route("/services", func(r chi.Router) {
			r.Get("/", whoami)
		})
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	customer := &jwt.Claims{UserID: "cust-1", Email: "alice@example.com", Role: constant.RoleCustomer, Type: jwt.AccessToken}
	staff := &jwt.Claims{UserID: "staff-1", Email: "sam@example.com", Role: constant.RoleStaff, Type: jwt.AccessToken}

	tests := []struct {
		name      string
		method    string
		target    string
		headers   map[string]string
		setupMock func(tokens *jwtMocks.MockJWT)
		code      int
		body      string
	}{
		{
			name:      "public route needs no token",
			method:    http.MethodGet,
			target:    "/v1/services",
			setupMock: func(*jwtMocks.MockJWT) {},
			code:      http.StatusOK,
			body:      "/",
		},
		{
			name:      "missing token",
			method:    http.MethodPost,
			target:    "/v1/bookings",
			setupMock: func(*jwtMocks.MockJWT) {},
			code:      http.StatusUnauthorized,
		},
		{
			name:      "malformed header",
			method:    http.MethodPost,
			target:    "/v1/bookings",
			headers:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setupMock: func(*jwtMocks.MockJWT) {},
			code:      http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodPost,
			target:  "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			setupMock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			code: http.StatusUnauthorized,
		},
		{
			name:    "claims without a role",
			method:  http.MethodPost,
			target:  "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer odd"},
			setupMock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "odd", jwt.AccessToken).Return(&jwt.Claims{UserID: "x", Email: "x@example.com"}, nil)
			},
			code: http.StatusUnauthorized,
		},
		{
			name:    "customer may book",
			method:  http.MethodPost,
			target:  "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer c"},
			setupMock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "c", jwt.AccessToken).Return(customer, nil)
			},
			code: http.StatusOK,
			body: "cust-1/customer",
		},
		{
			name:    "customer may not list every booking",
			method:  http.MethodGet,
			target:  "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer c"},
			setupMock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "c", jwt.AccessToken).Return(customer, nil)
			},
			code: http.StatusForbidden,
		},
		{
			name:    "staff may list every booking",
			method:  http.MethodGet,
			target:  "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer s"},
			setupMock: func(tokens *jwtMocks.MockJWT) {
				tokens.EXPECT().ValidateToken(gomock.Any(), "s", jwt.AccessToken).Return(staff, nil)
			},
			code: http.StatusOK,
			body: "staff-1/staff",
		},
		{
			name:      "internal caller acts as the system administrator",
			method:    http.MethodGet,
			target:    "/v1/bookings",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			setupMock: func(*jwtMocks.MockJWT) {},
			code:      http.StatusOK,
			body:      constant.ContextSystem + "/" + constant.RoleAdmin,
		},
		{
			name:      "wrong api key",
			method:    http.MethodGet,
			target:    "/v1/bookings",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setupMock: func(*jwtMocks.MockJWT) {},
			code:      http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := jwtMocks.NewMockJWT(gomock.NewController(t))
			tt.setupMock(tokens)

			request := httptest.NewRequestWithContext(context.Background(), tt.method, tt.target, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			newRouter(tokens).ServeHTTP(recorder, request)

			assert.Equal(t, tt.code, recorder.Code)

			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}
