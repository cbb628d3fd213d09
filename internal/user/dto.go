// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name,omitempty"    validate:"omitempty,min=1,max=100"`
	Email       *string `json:"email,omitempty"        validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,min=8,max=20"`
	Address     *string `json:"address,omitempty"      validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required"`
}

type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	RoleName    string     `json:"role_name"`
	Address     *string    `json:"address,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsBought    bool       `json:"is_bought"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     Role   `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		RoleName:    u.Role.DisplayName(),
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		IsBought:    u.IsBought,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
