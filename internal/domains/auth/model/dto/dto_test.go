package dto_test

import (
	"salon/infras/jwt"
	"salon/internal/domains/auth/model/dto"
	"salon/shared/constant"
	"salon/shared/validator"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenResponse(t *testing.T) {
	res := dto.NewTokenResponse(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900})

	assert.Equal(t, dto.TokenResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    dto.TokenTypeBearer,
		ExpiresIn:    900,
	}, res)
}

func TestRegisterRequest_ToModels(t *testing.T) {
	phone := "+15550100"
	skin := "oily"
	req := dto.RegisterRequest{Email: "alice@example.com", Password: "secret123", Phone: &phone, SkinType: &skin}

	user, profile := req.ToModels(constant.ContextGuest, "hashed")

	require.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, constant.RoleCustomer, user.Level)
	assert.Equal(t, "hashed", user.Password)
	assert.True(t, user.Active)
	assert.False(t, user.IsVerified)
	assert.Equal(t, &phone, profile.Phone)
	assert.Equal(t, &skin, profile.SkinType)
	assert.Equal(t, user.Metadata, profile.Metadata)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
}

func TestChangePasswordRequestRejectsReuse(t *testing.T) {
	req := dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"}

	assert.Error(t, validator.ValidateStruct(&req))

	req.NewPassword = "password456"
	assert.NoError(t, validator.ValidateStruct(&req))
}
