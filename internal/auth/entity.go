// AngelaMos | 2026
// entity.go

package auth

import (
	"context"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/access"
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         access.Role
	IsActive     bool
	CreatedAt    time.Time
}

type NewUser struct {
	Email        string
	Name         string
	Phone        string
	PasswordHash string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Identity is what a successful strategy yields: the principal the token is
// minted for and the profile shown to the client.
type Identity struct {
	Principal access.Principal
	User      UserInfo
}

type Blacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
