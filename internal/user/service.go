// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/auth"
	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	u auth.NewUser,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(u.Name),
		Email:        normalizeEmail(u.Email),
		Phone:        strings.TrimSpace(u.Phone),
		PasswordHash: u.PasswordHash,
		Role:         access.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, p access.Principal) (*User, error) {
	if !p.HasStoredAccount() {
		return nil, notStored(p)
	}

	return s.repo.GetByID(ctx, p.UserID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	p access.Principal,
	req UpdateProfileRequest,
) (*User, error) {
	if !p.HasStoredAccount() {
		return nil, notStored(p)
	}

	user, err := s.repo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(ctx, user, req); err != nil {
		return nil, err
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	p access.Principal,
	params ListUsersParams,
) ([]User, int, error) {
	if err := access.Can(p, access.ManageUsers, access.Resource{}); err != nil {
		return nil, 0, err
	}

	if params.Role != "" {
		if _, err := access.ParseRole(params.Role); err != nil {
			return nil, 0, core.Validationf("invalid role %q", params.Role)
		}
	}

	return s.repo.List(ctx, params)
}

func (s *Service) GetUser(
	ctx context.Context,
	p access.Principal,
	id string,
) (*User, error) {
	if err := access.Can(p, access.ManageUsers, access.Resource{}); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	p access.Principal,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	if err := access.Can(p, access.ManageUsers, access.Resource{}); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyProfile(ctx, user, req.UpdateProfileRequest); err != nil {
		return nil, err
	}

	if req.IsActive != nil {
		if !*req.IsActive && user.ID == p.UserID {
			return nil, core.Forbiddenf("cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	p access.Principal,
	id, role string,
) (*User, error) {
	if err := access.Can(p, access.ManageUsers, access.Resource{}); err != nil {
		return nil, err
	}

	parsed, err := access.ParseRole(role)
	if err != nil {
		return nil, core.Validationf("invalid role %q", role)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.ID == p.UserID && parsed != access.RoleAdmin {
		return nil, core.Forbiddenf("cannot remove your own admin role")
	}

	user.Role = parsed

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser deactivates the account. Rows are never removed because
// bookings reference them.
func (s *Service) DeleteUser(
	ctx context.Context,
	p access.Principal,
	id string,
) error {
	if err := access.Can(p, access.ManageUsers, access.Resource{}); err != nil {
		return err
	}

	if id == p.UserID {
		return core.Forbiddenf("cannot delete your own account")
	}

	return s.repo.Deactivate(ctx, id)
}

func (s *Service) applyProfile(
	ctx context.Context,
	user *User,
	req UpdateProfileRequest,
) error {
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			taken, err := s.repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return core.Conflictf("email already in use")
			}
			user.Email = email
		}
	}

	return nil
}

func (s *Service) save(ctx context.Context, user *User) error {
	err := s.repo.Update(ctx, user)
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.Conflictf("email already in use")
	}
	return err
}

func notStored(p access.Principal) error {
	if p.IsZero() {
		return fmt.Errorf("user profile: %w", core.ErrUnauthorized)
	}
	return core.Forbiddenf("operator account has no stored profile")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
