// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/middleware"
)

const msgUserGone = "invalid token or user not found"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type TokenIssuer interface {
	CreateAccessToken(claims AccessTokenClaims) (string, time.Time, error)
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*middleware.AccessTokenClaims, error)
}

type Service struct {
	tokens     TokenIssuer
	strategies []Strategy
	users      UserProvider
	blacklist  Blacklist
	operator   UserInfo
}

// NewService wires the login chain. Strategies are tried in order.
func NewService(
	tokens TokenIssuer,
	users UserProvider,
	blacklist Blacklist,
	operatorEmail string,
	strategies ...Strategy,
) *Service {
	return &Service{
		tokens:     tokens,
		strategies: strategies,
		users:      users,
		blacklist:  blacklist,
		operator:   OperatorUser(operatorEmail),
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	for _, strategy := range s.strategies {
		identity, err := strategy.Authenticate(ctx, req.Email, req.Password)
		if errors.Is(err, ErrNoMatch) {
			continue
		}
		if err != nil {
			return nil, err
		}

		slog.InfoContext(ctx, "login succeeded",
			"strategy", strategy.Name(),
			"user_id", identity.Principal.UserID,
		)
		return s.createAuthResponse(identity)
	}

	return nil, ErrInvalidCredentials
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, NewUser{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(&Identity{
		Principal: access.Principal{UserID: user.ID, Role: user.Role},
		User:      *user,
	})
}

// VerifyAccessToken validates the token and rejects it if it was logged out.
// Stored accounts are reloaded on every call: a deactivated or deleted user
// is refused, and the role comes from the stored row rather than the token.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	if claims.Operator {
		if claims.UserID != access.OperatorID {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return claims, nil
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.UnauthorizedError(msgUserGone)
	}
	if err != nil {
		return nil, fmt.Errorf("verify token: load user: %w", err)
	}
	if !user.IsActive {
		return nil, core.UnauthorizedError(msgUserGone)
	}

	claims.Role = user.Role.String()
	return claims, nil
}

func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}
	return s.blacklist.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	p access.Principal,
	currentPassword, newPassword string,
) error {
	if !p.HasStoredAccount() {
		return core.Forbiddenf("operator credentials are managed by configuration")
	}

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.CheckPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, p.UserID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	p access.Principal,
) (*UserResponse, error) {
	if p.Operator {
		resp := toUserResponse(s.operator)
		return &resp, nil
	}

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *Service) createAuthResponse(identity *Identity) (*AuthResponse, error) {
	accessToken, expiresAt, err := s.tokens.CreateAccessToken(AccessTokenClaims{
		UserID:   identity.Principal.UserID,
		Role:     identity.Principal.Role,
		Operator: identity.Principal.Operator,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		User: toUserResponse(identity.User),
		Tokens: TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(time.Until(expiresAt).Seconds()),
			ExpiresAt:   expiresAt,
		},
	}, nil
}

func toUserResponse(u UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		IsAdmin:   u.Role == access.RoleAdmin,
		CreatedAt: u.CreatedAt,
	}
}

var _ middleware.TokenVerifier = (*Service)(nil)
