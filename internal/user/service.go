// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/techzone/backoffice/internal/auth"
	"github.com/techzone/backoffice/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email)
}

func (s *Service) Create(
	ctx context.Context,
	params auth.NewUser,
) (*auth.UserInfo, error) {
	user := &User{
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		FullName:     params.FullName,
		Email:        strings.ToLower(params.Email),
		Role:         RoleCustomer,
		Address:      params.Address,
		PhoneNumber:  params.PhoneNumber,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) TouchLastLogin(ctx context.Context, userID int64) error {
	return s.repo.TouchLastLogin(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id int64,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		user.PhoneNumber = &phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	id int64,
	req ChangePasswordRequest,
) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return fmt.Errorf("current password is incorrect: %w", core.ErrUnauthorized)
	}

	if !core.IsStrongPassword(req.NewPassword) {
		return fmt.Errorf(
			"password needs 8+ characters with upper, lower, digit and symbol: %w",
			core.ErrInvalidInput,
		)
	}

	hash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) UpdateRole(ctx context.Context, id int64, role Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf(
			"role must be 1 (admin), 2 (customer) or 3 (staff): %w",
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) ToggleActive(ctx context.Context, id int64) (bool, error) {
	return s.repo.ToggleActive(ctx, id)
}

// DeleteByUsername refuses to remove the caller's own account.
func (s *Service) DeleteByUsername(
	ctx context.Context,
	requesterID int64,
	username string,
) error {
	target, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if target.ID == requesterID {
		return fmt.Errorf("cannot delete your own account: %w", core.ErrForbidden)
	}

	return s.repo.DeleteByUsername(ctx, username)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role.Claim(),
		RoleName:     u.Role.DisplayName(),
		IsActive:     u.IsActive,
		IsBought:     u.IsBought,
	}
}

var _ auth.UserProvider = (*Service)(nil)
