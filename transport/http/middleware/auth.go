package middleware

import (
	"context"
	"errors"
	"net/http"
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/otel"
	"salon/permissions"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/transport/http/response"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

// Auth authenticates callers, either by bearer token or by the internal API key.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role authorizes authenticated callers against permissions.json.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	tokens jwt.JWT
	otel   otel.Otel
	table  *permissions.PermissionData
	cfg    *config.Config
}

func NewAuthRoleMiddleware(tokens jwt.JWT, otel otel.Otel, table *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		tokens: tokens,
		otel:   otel,
		table:  table,
		cfg:    cfg,
	}
}

// step is one middleware check. A non-nil error rejects the request; otherwise the returned
// request, which may carry a new context, continues down the chain.
type step func(scope otel.Scope, request *http.Request) (*http.Request, error)

func (m *authRoleImpl) guard(name string, check step) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, name+".middleware")

			request, err := check(scope, request)
			if err != nil {
				scope.TraceError(err)
				scope.End()
				response.WithError(writer, err)

				return
			}

			scope.End()
			next.ServeHTTP(writer, request)
		})
	}
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

// route resolves the pattern the request will match, since middlewares run before routing.
func (m *authRoleImpl) route(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return "", permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if m.table == nil {
		return pattern, permissions.Permission{}
	}

	return pattern, m.table.FindPermissions(pattern, request.Method)
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims")
	case errors.Is(err, jwt.ErrInvalidToken):
		return failure.Unauthorized("Invalid token")
	default:
		return failure.Unauthorized("Token validation failed")
	}
}

// Auth stores the caller identity from a valid access token on the request context.
// Routes marked skip in permissions.json pass through anonymously.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return m.guard("auth", func(scope otel.Scope, request *http.Request) (*http.Request, error) {
		ctx := request.Context()

		pattern, permission := m.route(request)
		if skipped(ctx) || permission.Skip {
			return request, nil
		}

		scope.SetAttributes(map[string]any{
			"http.path":   pattern,
			"http.method": request.Method,
		})

		header := request.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			return nil, failure.Unauthorized("Missing authorization header")
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			return nil, failure.Unauthorized("Invalid authorization header format")
		}

		claims, err := m.tokens.ValidateToken(ctx, token, jwt.AccessToken)
		if err != nil {
			return nil, tokenFailure(err)
		}

		if claims.UserID == "" || claims.Email == "" || claims.Role == "" {
			log.Warn().Str("token_id", claims.TokenID).Msg("access token is missing identity claims")

			return nil, failure.Unauthorized("Invalid token claims")
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		return request.WithContext(ctx), nil
	})(next)
}

// RBAC rejects callers whose role is not listed for the route. An empty list admits any authenticated caller.
// Without a permission table every request is denied.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return m.guard("rbac", func(scope otel.Scope, request *http.Request) (*http.Request, error) {
		if m.table == nil {
			return nil, failure.ForbiddenError
		}

		_, permission := m.route(request)
		if skipped(request.Context()) || m.table.Skip || permission.Skip || len(permission.Permissions) == 0 {
			return request, nil
		}

		role, _ := request.Context().Value(constant.ContextKeyUserRole).(string)
		if !slices.Contains(permission.Permissions, role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": permission.Permissions,
			})

			return nil, failure.ForbiddenError
		}

		return request, nil
	})(next)
}

// APIKey admits internal callers presenting APP_API_KEY as the system administrator.
// Requests without the header continue to token authentication.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return m.guard("api_key", func(scope otel.Scope, request *http.Request) (*http.Request, error) {
		key := request.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			scope.SetAttribute("http.source", "client")

			return request, nil
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || key != m.cfg.App.APIKey {
			return nil, failure.ForbiddenError
		}

		ctx := context.WithValue(request.Context(), skipAuth, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ContextSystem)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		return request.WithContext(ctx), nil
	})(next)
}
