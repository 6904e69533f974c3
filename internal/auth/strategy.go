// AngelaMos | 2026
// strategy.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/config"
	"github.com/carterperez-dev/hotelbook/internal/core"
)

// ErrNoMatch tells the login chain to try the next strategy.
var ErrNoMatch = errors.New("strategy does not apply")

// Strategy authenticates email/password credentials. Returning ErrNoMatch
// defers to the next strategy; any other error ends the attempt.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// OperatorStrategy matches the config-supplied operator credentials and
// synthesizes an admin principal with no stored record behind it.
type OperatorStrategy struct {
	cfg config.OperatorConfig
}

func NewOperatorStrategy(cfg config.OperatorConfig) *OperatorStrategy {
	return &OperatorStrategy{cfg: cfg}
}

func (s *OperatorStrategy) Name() string { return "operator" }

func (s *OperatorStrategy) Authenticate(
	_ context.Context,
	email, password string,
) (*Identity, error) {
	if !s.cfg.Enabled || s.cfg.Email == "" {
		return nil, ErrNoMatch
	}

	emailOK := core.ConstantTimeEqual(
		strings.ToLower(strings.TrimSpace(email)),
		strings.ToLower(s.cfg.Email),
	)
	passOK := core.ConstantTimeEqual(password, s.cfg.Password)
	if !emailOK || !passOK {
		return nil, ErrNoMatch
	}

	return &Identity{
		Principal: access.Principal{
			UserID:   access.OperatorID,
			Role:     access.RoleAdmin,
			Operator: true,
		},
		User: OperatorUser(s.cfg.Email),
	}, nil
}

func OperatorUser(email string) UserInfo {
	return UserInfo{
		ID:       access.OperatorID,
		Email:    strings.ToLower(email),
		Name:     "Admin",
		Role:     access.RoleAdmin,
		IsActive: true,
	}
}

// StoreStrategy verifies credentials against the users table.
type StoreStrategy struct {
	users UserProvider
}

func NewStoreStrategy(users UserProvider) *StoreStrategy {
	return &StoreStrategy{users: users}
}

func (s *StoreStrategy) Name() string { return "store" }

func (s *StoreStrategy) Authenticate(
	ctx context.Context,
	email, password string,
) (*Identity, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // the dummy check only equalizes timing
			_, _, _ = core.CheckPasswordTimingSafe(password, "")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.CheckPasswordTimingSafe(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	return &Identity{
		Principal: access.Principal{UserID: user.ID, Role: user.Role},
		User:      *user,
	}, nil
}

var (
	_ Strategy = (*OperatorStrategy)(nil)
	_ Strategy = (*StoreStrategy)(nil)
)
