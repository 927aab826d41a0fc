package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/otel"
	"salon/internal/domains/auth/model/dto"
	userModel "salon/internal/domains/user/model"
	userRepo "salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/password"
	gRepository "salon/shared/repository"
	"salon/shared/timezone"

	"github.com/rs/zerolog/log"
)

var errInvalidCredentials = failure.Unauthorized("invalid email or password")

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	users  userRepo.User
	cfg    *config.Config
	otel   otel.Otel
	tokens jwt.JWT
}

func New(users userRepo.User, cfg *config.Config, otel otel.Otel, tokens jwt.JWT) Auth {
	return &serviceImpl{
		users:  users,
		cfg:    cfg,
		otel:   otel,
		tokens: tokens,
	}
}

func (s *serviceImpl) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth."+operation)
}

func byEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: userModel.FieldEmail, Operator: gDto.FilterOperatorEq, Value: email, Table: userModel.TableName},
		},
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, userModel.FieldID, userModel.TableName)
}

// hash turns an unusable password into a bad request and anything else into an internal error.
func hash(plain string) (string, error) {
	hashed, err := password.Hash(plain)

	switch {
	case err == nil:
		return hashed, nil
	case errors.Is(err, password.ErrEmptyPassword), errors.Is(err, password.ErrPasswordTooLong):
		return "", failure.BadRequest(err)
	default:
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
}

// Register creates a customer account together with its profile.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.scope(ctx, "Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	taken, err := s.users.Exist(ctx, byEmail(req.Email))
	if err != nil {
		return fmt.Errorf("failed to check email %s: %w", req.Email, err)
	}

	if taken {
		return failure.BadRequestFromString("email already registered")
	}

	hashed, err := hash(req.Password)
	if err != nil {
		return err
	}

	user, profile := req.ToModels(constant.ContextGuest, hashed)

	err = s.users.InsertWithProfile(ctx, user, profile)
	if errors.Is(err, gRepository.ErrDuplicate) {
		return failure.BadRequestFromString("email already registered")
	}

	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register customer")

		return fmt.Errorf("failed to register customer: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("customer registered")

	return nil
}

// Login issues a token pair. Unknown email and wrong password are indistinguishable to the caller.
// The last login stamp is best effort and may upgrade the stored hash to the current cost.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.scope(ctx, "Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.users.Get(ctx, byEmail(req.Email))
	if err != nil {
		return res, fmt.Errorf("failed to get user %s: %w", req.Email, err)
	}

	if user.ID == "" || password.Verify(req.Password, user.Password) != nil {
		log.Info().Str("email", req.Email).Msg("rejected login")

		return res, errInvalidCredentials
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated")
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user.ID, user.Email, user.Level)
	if err != nil {
		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.recordLogin(ctx, user, req.Password)

	return dto.NewTokenResponse(pair), nil
}

func (s *serviceImpl) recordLogin(ctx context.Context, user userModel.User, plain string) {
	audit := dto.LoginAudit{LastLogin: timezone.Now()}

	if password.NeedsRehash(user.Password) {
		if rehashed, err := password.Hash(plain); err == nil {
			audit.Password = rehashed
		}
	}

	if err := s.users.Update(ctx, shared.TransformFields(audit, user.ID), byID(user.ID)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login")
	}
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.scope(ctx, "RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pair, err := s.tokens.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Info().Err(err).Msg("rejected refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	return dto.NewTokenResponse(pair), nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.scope(ctx, "ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.users.Get(ctx, byID(userID))
	if err != nil {
		return fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found")
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashed, err := hash(req.NewPassword)
	if err != nil {
		return err
	}

	if err = s.users.Update(ctx, shared.TransformFields(dto.PasswordChange{Password: hashed}, userID), byID(userID)); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to change password")

		return fmt.Errorf("failed to change password: %w", err)
	}

	return nil
}
