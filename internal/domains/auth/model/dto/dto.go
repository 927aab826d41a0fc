package dto

import (
	"salon/infras/jwt"
	userModel "salon/internal/domains/user/model"
	"salon/shared/constant"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"time"

	"github.com/google/uuid"
)

const TokenTypeBearer = "Bearer"

// RegisterRequest signs up a customer. The profile fields are optional.
type RegisterRequest struct {
	Email    string  `json:"email"               validate:"required,email,max=255"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,e164"`
	Address  *string `json:"address,omitempty"   validate:"omitempty,max=255"`
	SkinType *string `json:"skin_type,omitempty" validate:"omitempty,oneof=normal dry oily combination sensitive"`
}

// ToModels builds the customer account and its profile. Both rows share the id and the audit trail.
func (r *RegisterRequest) ToModels(actor, hashedPassword string) (userModel.User, userModel.CustomerProfile) {
	audit := gModel.Created(actor, timezone.Now())
	id := uuid.NewString()

	return userModel.User{
			ID:       id,
			Email:    r.Email,
			Password: hashedPassword,
			Level:    constant.RoleCustomer,
			FullName: r.FullName,
			Active:   true,
			Metadata: audit,
		}, userModel.CustomerProfile{
			UserID:   id,
			Phone:    r.Phone,
			Address:  r.Address,
			SkinType: r.SkinType,
			Metadata: audit,
		}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// TokenResponse answers both login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func NewTokenResponse(pair *jwt.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    pair.ExpiresIn,
	}
}

// LoginAudit is written after a successful login. Password is set only when the stored hash is rehashed.
type LoginAudit struct {
	LastLogin time.Time `db:"last_login"`
	Password  string    `db:"password"`
}

type PasswordChange struct {
	Password string `db:"password"`
}
