package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/user/model"
	"salon/internal/domains/user/model/dto"
	"salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/password"
	gRepository "salon/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
)

var errUserNotFound = failure.NotFound("user not found")

// User manages accounts: the staff directory and administrator edits, plus each user's own profile.
type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, level string) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Profile(ctx context.Context, id string) (dto.ProfileResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) error
	UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) error
	Deactivate(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.User
	profiles repository.CustomerProfile
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.User, profiles repository.CustomerProfile, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:     repo,
		profiles: profiles,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func actor(ctx context.Context) string {
	if id, _ := ctx.Value(constant.ContextKeyUserID).(string); id != "" {
		return id
	}

	return constant.ContextSystem
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(actor(ctx), hashedPassword)

	err = s.repo.Insert(ctx, user)
	if errors.Is(err, gRepository.ErrDuplicate) {
		return res, failure.BadRequestFromString("email already registered")
	}

	if err != nil {
		log.Error().Err(err).Str("level", user.Level).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllUser)

	res.FromModel(user)

	return res, nil
}

// GetAll lists accounts. An empty level lists every account; "staff" gives the staff directory.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, level string) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if level != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldLevel,
			Value:    level,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllUser, params, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.GetUsersResponse, err error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count users")

				return res, fmt.Errorf("failed to count users: %w", err)
			}

			models, err := s.repo.GetAll(ctx, params, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get users")

				return res, fmt.Errorf("failed to get users: %w", err)
			}

			res.FromModels(models, total, params.Limit)

			return res, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (res dto.UserResponse, err error) {
			user, err := s.load(ctx, id)
			if err != nil {
				return res, err
			}

			res.FromModel(user)

			return res, nil
		})
}

// Profile returns the account with its customer profile, when it has one. It is never cached.
func (s *serviceImpl) Profile(ctx context.Context, id string) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Profile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.UserResponse.FromModel(user)

	if user.Level != constant.RoleCustomer {
		return res, nil
	}

	profile, err := s.profiles.Get(ctx, shared.FilterByID(id, model.FieldUserID, model.ProfileTableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get customer profile")

		return res, fmt.Errorf("failed to get customer profile: %w", err)
	}

	if profile.UserID != "" {
		res.Profile = &dto.CustomerProfileResponse{}
		res.Profile.FromModel(profile)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor(ctx)), filter); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.evict(ctx, id)

	return nil
}

// UpdateProfile edits the caller's own account. Profile fields are rejected for accounts without a customer profile.
func (s *serviceImpl) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UpdateProfile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if req.HasProfileFields() && user.Level != constant.RoleCustomer {
		return failure.BadRequestFromString("only customers have a profile")
	}

	userFields, profileFields := req.Fields(actor(ctx))

	if err = s.repo.UpdateWithProfile(ctx, id, userFields, profileFields); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to update profile")

		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.evict(ctx, id)

	return nil
}

// Deactivate keeps the account row so existing bookings still reference it.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Deactivate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if id == actor(ctx) {
		return failure.BadRequestFromString("you cannot deactivate your own account")
	}

	if _, err = s.load(ctx, id); err != nil {
		return err
	}

	fields := shared.TransformFields(struct{}{}, actor(ctx))
	fields[model.FieldActive] = false

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to deactivate user")

		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.evict(ctx, id)

	return nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return user, errUserNotFound
	}

	return user, nil
}

func (s *serviceImpl) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("failed to delete user from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllUser)
}
