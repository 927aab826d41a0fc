package dto

import (
	"salon/internal/domains/user/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"

	"github.com/google/uuid"
)

// CreateUserRequest is used by administrators to open staff and admin accounts.
// Customers sign up through auth registration instead.
type CreateUserRequest struct {
	Email    string  `json:"email"               validate:"required,email"`
	Password string  `json:"password"            validate:"required,min=8"`
	Level    string  `json:"level"               validate:"required,oneof=staff admin"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		Level:      r.Level,
		FullName:   r.FullName,
		IsVerified: true,
		Active:     true,
		Metadata:   gModel.Created(username, timezone.Now()),
	}
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Level      string  `json:"level"`
	FullName   *string `json:"full_name,omitempty"`
	IsVerified bool    `json:"is_verified"`
	LastLogin  *string `json:"last_login,omitempty"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.IsVerified = model.IsVerified
	r.Active = model.Active
	r.Metadata = gDto.NewMetadata(model.Metadata)

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}
}

type CustomerProfileResponse struct {
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	SkinType *string `json:"skin_type,omitempty"`
}

func (r *CustomerProfileResponse) FromModel(model model.CustomerProfile) {
	r.Phone = model.Phone
	r.Address = model.Address
	r.SkinType = model.SkinType
}

// ProfileResponse is an account with its customer profile. Profile is nil for staff and administrators.
type ProfileResponse struct {
	UserResponse
	Profile *CustomerProfileResponse `json:"profile,omitempty"`
}

// UpdateUserRequest is the administrator's view of an account.
type UpdateUserRequest struct {
	Level      *string `db:"level"       json:"level,omitempty"       validate:"omitempty,oneof=customer staff admin"`
	FullName   *string `db:"full_name"   json:"full_name,omitempty"   validate:"omitempty,min=2,max=100"`
	IsVerified *bool   `db:"is_verified" json:"is_verified,omitempty"`
	Active     *bool   `db:"active"      json:"active,omitempty"`
}

// UpdateProfileRequest is sent by users editing their own account. Phone, address and
// skin type only exist for customers.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty"     validate:"omitempty,e164"`
	Address  *string `json:"address,omitempty"   validate:"omitempty,max=255"`
	SkinType *string `json:"skin_type,omitempty" validate:"omitempty,oneof=normal dry oily combination sensitive"`
}

type userFields struct {
	FullName *string `db:"full_name"`
}

type profileFields struct {
	Phone    *string `db:"phone"`
	Address  *string `db:"address"`
	SkinType *string `db:"skin_type"`
}

// HasProfileFields reports whether the request touches the customer profile.
func (r *UpdateProfileRequest) HasProfileFields() bool {
	return r.Phone != nil || r.Address != nil || r.SkinType != nil
}

// Fields splits the request into the column maps of both tables. The profile map is nil when
// no profile field was sent.
func (r *UpdateProfileRequest) Fields(username string) (user map[string]any, profile map[string]any) {
	user = shared.TransformFields(userFields{FullName: r.FullName}, username)

	if r.HasProfileFields() {
		profile = shared.TransformFields(profileFields{Phone: r.Phone, Address: r.Address, SkinType: r.SkinType}, username)
	}

	return user, profile
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
