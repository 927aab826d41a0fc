package auth

import (
	"net/http"
	"salon/infras/otel"
	"salon/internal/domains/auth/model/dto"
	"salon/internal/domains/auth/service"
	userService "salon/internal/domains/user/service"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/validator"
	"salon/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	users   userService.User
	otel    otel.Otel
}

func New(service service.Auth, users userService.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		users:   users,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(routerGroup chi.Router) {
		routerGroup.Post("/register", handler.Register)
		routerGroup.Post("/login", handler.Login)
		routerGroup.Post("/refresh-token", handler.RefreshToken)
		routerGroup.Get("/me", handler.Me)
		routerGroup.Put("/change-password", handler.ChangePassword)
	})
}

func (handler *Handler) scope(request *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".auth."+name)

	return request.WithContext(ctx), scope
}

func fail(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(writer, err)
}

// decode reads and validates the body, answering 400 itself when it cannot.
func decode[T any](writer http.ResponseWriter, request *http.Request, scope otel.Scope, req *T) bool {
	if err := validator.Validate(request.Body, req); err != nil {
		log.Info().Err(err).Str("path", request.URL.Path).Msg("invalid auth request")
		fail(writer, scope, err)

		return false
	}

	return true
}

func callerID(request *http.Request) (string, error) {
	userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
	if userID == "" {
		return "", failure.Unauthorized("unauthorized")
	}

	return userID, nil
}

// Register handles customer self-registration
// @Summary Register a new customer
// @Description Create a customer account and its profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Message "User registered successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "Register")
	defer scope.End()

	var req dto.RegisterRequest
	if !decode(writer, request, scope, &req) {
		return
	}

	if err := handler.service.Register(request.Context(), req); err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "User registered successfully")
}

// @Summary Login a user
// @Description Exchange credentials for an access and refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.TokenResponse] "Token pair"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "Login")
	defer scope.End()

	var req dto.LoginRequest
	if !decode(writer, request, scope, &req) {
		return
	}

	res, err := handler.service.Login(request.Context(), req)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// @Summary Refresh user token
// @Description Trade a refresh token for a new token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.TokenResponse] "Token pair"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if !decode(writer, request, scope, &req) {
		return
	}

	res, err := handler.service.RefreshToken(request.Context(), req)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Me returns the caller's account and, for customers, the profile.
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} object "Current user with profile"
// @Failure 401 {object} response.Error
// @Router /v1/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "Me")
	defer scope.End()

	userID, err := callerID(request)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	res, err := handler.users.Profile(request.Context(), userID)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [put]
// @Security BearerAuth
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "ChangePassword")
	defer scope.End()

	userID, err := callerID(request)
	if err != nil {
		fail(writer, scope, err)

		return
	}

	var req dto.ChangePasswordRequest
	if !decode(writer, request, scope, &req) {
		return
	}

	if err := handler.service.ChangePassword(request.Context(), req, userID); err != nil {
		fail(writer, scope, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Password changed successfully")
}
