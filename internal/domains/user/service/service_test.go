package service_test

import (
	"context"
	"errors"
	"salon/config"
	"salon/infras/otel/mocks"
	userMocks "salon/internal/domains/user/mocks"
	"salon/internal/domains/user/model"
	"salon/internal/domains/user/model/dto"
	"salon/internal/domains/user/service"
	"salon/shared/cache"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"salon/shared/password"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo     *userMocks.MockUser
	profiles *userMocks.MockCustomerProfile
	cache    *cacheMocks.MockRedisCache
	users    service.User
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f := fixture{
		repo:     userMocks.NewMockUser(ctrl),
		profiles: userMocks.NewMockCustomerProfile(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}
	f.users = service.New(f.repo, f.profiles, cfg, f.cache, mocks.NewOtel())

	return f
}

func (f fixture) stored(user model.User) {
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
}

func (f fixture) evicted(id string) {
	f.cache.EXPECT().Delete(gomock.Any(), "user:get:"+id).Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), "user:gets:*").Return(nil)
}

func as(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func ptr[T any](v T) *T {
	return &v
}

var (
	alice = model.User{ID: "cust-1", Email: "alice@example.com", Level: constant.RoleCustomer, Active: true}
	sam   = model.User{ID: "staff-1", Email: "sam@example.com", Level: constant.RoleStaff, Active: true}
)

func TestCreate(t *testing.T) {
	req := dto.CreateUserRequest{Email: "sam@example.com", Password: "password123", Level: constant.RoleStaff}

	t.Run("staff account", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.Equal(t, constant.RoleStaff, user.Level)
				assert.Equal(t, "admin-1", user.CreatedBy)
				assert.NoError(t, password.Verify("password123", user.Password))

				return nil
			})
		f.cache.EXPECT().Clear(gomock.Any(), "user:gets:*").Return(nil)

		res, err := f.users.Create(as("admin-1"), req)

		require.NoError(t, err)
		assert.Equal(t, "sam@example.com", res.Email)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.users.Create(as("admin-1"), req)

		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestGetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "users.level = :level")
			assert.Equal(t, constant.RoleStaff, args["level"])

			return 1, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{sam}, nil)
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).Return(nil)

	res, err := f.users.GetAll(context.Background(), params, constant.RoleStaff)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "staff-1", res.Users[0].ID)
}

func TestGet(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "user:get:ghost", gomock.Any()).Return(cache.Nil)
		f.stored(model.User{})

		_, err := f.users.Get(context.Background(), "ghost")

		assert.Equal(t, failure.KindResourceNotFound, failure.GetKind(err))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("connection reset"))

		_, err := f.users.Get(context.Background(), "cust-1")

		require.Error(t, err)
		assert.Equal(t, failure.KindUnknown, failure.GetKind(err))
	})
}

func TestProfile(t *testing.T) {
	t.Run("customer with profile", func(t *testing.T) {
		f := newFixture(t)

		f.stored(alice)
		f.profiles.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CustomerProfile{UserID: "cust-1", SkinType: ptr("dry")}, nil)

		res, err := f.users.Profile(context.Background(), "cust-1")

		require.NoError(t, err)
		require.NotNil(t, res.Profile)
		assert.Equal(t, "dry", *res.Profile.SkinType)
	})

	t.Run("staff have none", func(t *testing.T) {
		f := newFixture(t)

		f.stored(sam)

		res, err := f.users.Profile(context.Background(), "staff-1")

		require.NoError(t, err)
		assert.Nil(t, res.Profile)
		assert.Equal(t, constant.RoleStaff, res.Level)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("customer updates both tables", func(t *testing.T) {
		f := newFixture(t)

		f.stored(alice)
		f.repo.EXPECT().UpdateWithProfile(gomock.Any(), "cust-1", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, userFields, profileFields map[string]any) error {
				assert.Equal(t, ptr("Alice"), userFields[model.FieldFullName])
				assert.Equal(t, ptr("oily"), profileFields[model.FieldSkinType])
				assert.NotContains(t, profileFields, model.FieldPhone)

				return nil
			})
		f.evicted("cust-1")

		err := f.users.UpdateProfile(as("cust-1"), "cust-1", dto.UpdateProfileRequest{FullName: ptr("Alice"), SkinType: ptr("oily")})

		require.NoError(t, err)
	})

	t.Run("name only leaves the profile alone", func(t *testing.T) {
		f := newFixture(t)

		f.stored(sam)
		f.repo.EXPECT().UpdateWithProfile(gomock.Any(), "staff-1", gomock.Any(), gomock.Nil()).Return(nil)
		f.evicted("staff-1")

		err := f.users.UpdateProfile(as("staff-1"), "staff-1", dto.UpdateProfileRequest{FullName: ptr("Sam")})

		require.NoError(t, err)
	})

	t.Run("staff cannot set profile fields", func(t *testing.T) {
		f := newFixture(t)

		f.stored(sam)

		err := f.users.UpdateProfile(as("staff-1"), "staff-1", dto.UpdateProfileRequest{Phone: ptr("+15550100")})

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		err := f.users.UpdateProfile(as("cust-1"), "cust-1", dto.UpdateProfileRequest{})

		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)

	f.stored(sam)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, ptr(constant.RoleAdmin), fields[model.FieldLevel])
			assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
			assert.NotContains(t, fields, model.FieldActive)

			return nil
		})
	f.evicted("staff-1")

	err := f.users.Update(as("admin-1"), "staff-1", dto.UpdateUserRequest{Level: ptr(constant.RoleAdmin)})

	require.NoError(t, err)
}

func TestDeactivate(t *testing.T) {
	t.Run("deactivated", func(t *testing.T) {
		f := newFixture(t)

		f.stored(sam)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldActive])

				return nil
			})
		f.evicted("staff-1")

		require.NoError(t, f.users.Deactivate(as("admin-1"), "staff-1"))
	})

	t.Run("not yourself", func(t *testing.T) {
		f := newFixture(t)

		err := f.users.Deactivate(as("admin-1"), "admin-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})
}
