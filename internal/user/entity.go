// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/hotelbook/internal/access"
)

type User struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	Phone        string      `db:"phone"`
	PasswordHash string      `db:"password_hash"`
	Role         access.Role `db:"role"`
	IsActive     bool        `db:"is_active"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == access.RoleAdmin
}
