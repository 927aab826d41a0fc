package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/user/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// ExistsWithRole reports whether an active user with id holds one of roles.
	ExistsWithRole(ctx context.Context, id string, roles ...string) (bool, error)
	// InsertWithProfile stores a customer account and its profile atomically.
	InsertWithProfile(ctx context.Context, user model.User, profile model.CustomerProfile) error
	// UpdateWithProfile applies both field sets atomically. A nil profile map leaves the profile untouched.
	UpdateWithProfile(ctx context.Context, id string, userFields, profileFields map[string]any) error
}

type CustomerProfile interface {
	Insert(ctx context.Context, model model.CustomerProfile) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CustomerProfile, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	profiles CustomerProfile
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		profiles:   NewCustomerProfile(db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) ExistsWithRole(ctx context.Context, id string, roles ...string) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			shared.FilterByID(id, model.FieldID, model.TableName),
			gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if len(roles) > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldLevel, Value: roles, Operator: gDto.FilterOperatorIn, Table: model.TableName})
	}

	return r.Exist(ctx, filter)
}

type profileRepositoryImpl struct {
	gRepo.Repository[model.CustomerProfile]
}

func NewCustomerProfile(db *postgres.Connection, otel otel.Otel) CustomerProfile {
	return &profileRepositoryImpl{
		Repository: gRepo.NewRepository[model.CustomerProfile](model.ProfileEntityName, model.ProfileTableName, model.FieldUserID, db, otel),
	}
}

func (r *repositoryImpl) InsertWithProfile(ctx context.Context, user model.User, profile model.CustomerProfile) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.InsertWithProfile")
	defer scope.End()

	err := r.db.Transaction(ctx, func(ctx context.Context) error {
		if err := r.Insert(ctx, user); err != nil {
			return err
		}

		return r.profiles.Insert(ctx, profile)
	})
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to register user %s: %w", user.ID, err)
	}

	return nil
}

func (r *repositoryImpl) UpdateWithProfile(ctx context.Context, id string, userFields, profileFields map[string]any) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.UpdateWithProfile")
	defer scope.End()

	err := r.db.Transaction(ctx, func(ctx context.Context) error {
		if err := r.Update(ctx, userFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err
		}

		if profileFields == nil {
			return nil
		}

		return r.profiles.Update(ctx, profileFields, shared.FilterByID(id, model.FieldUserID, model.ProfileTableName))
	})
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to update user %s: %w", id, err)
	}

	return nil
}
