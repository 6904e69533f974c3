// AngelaMos | 2026
// policy.go

package access

import (
	"fmt"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts only the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("parse role %q: %w", s, core.ErrInvalidInput)
}

func (r Role) String() string {
	return string(r)
}

// OperatorID is the subject of the config-credential operator principal.
const OperatorID = "operator"

// Principal is the authenticated actor an operation runs on behalf of.
type Principal struct {
	UserID   string
	Role     Role
	Operator bool
}

func (p Principal) IsZero() bool {
	return p.UserID == ""
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasStoredAccount reports whether the principal is backed by a users row.
func (p Principal) HasStoredAccount() bool {
	return !p.IsZero() && !p.Operator
}

type Action int

const (
	ReadBooking Action = iota
	CancelBooking
	UpdateBookingStatus
	UpdatePaymentStatus
	ListAllBookings
	ViewBookingStats
	CreateHotel
	UpdateHotel
	DeleteHotel
	CreateRoom
	UpdateRoom
	DeleteRoom
	ManageUsers
)

var actionNames = map[Action]string{
	ReadBooking:         "read booking",
	CancelBooking:       "cancel booking",
	UpdateBookingStatus: "update booking status",
	UpdatePaymentStatus: "update payment status",
	ListAllBookings:     "list all bookings",
	ViewBookingStats:    "view booking stats",
	CreateHotel:         "create hotel",
	UpdateHotel:         "update hotel",
	DeleteHotel:         "delete hotel",
	CreateRoom:          "create room",
	UpdateRoom:          "update room",
	DeleteRoom:          "delete room",
	ManageUsers:         "manage users",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Resource identifies what an action targets. OwnerID is the user owning the
// booking, or the creator of the hotel a room or hotel belongs to.
type Resource struct {
	OwnerID string
}

func Owned(ownerID string) Resource {
	return Resource{OwnerID: ownerID}
}

// rule decides an action for a non-admin principal.
type rule func(p Principal, res Resource) bool

func authenticated(p Principal, _ Resource) bool { return !p.IsZero() }

func owner(p Principal, res Resource) bool {
	return !p.IsZero() && res.OwnerID != "" && res.OwnerID == p.UserID
}

func never(Principal, Resource) bool { return false }

var userRules = map[Action]rule{
	ReadBooking:         owner,
	CancelBooking:       owner,
	UpdateBookingStatus: never,
	UpdatePaymentStatus: never,
	ListAllBookings:     never,
	ViewBookingStats:    never,
	CreateHotel:         authenticated,
	UpdateHotel:         owner,
	DeleteHotel:         owner,
	CreateRoom:          authenticated,
	UpdateRoom:          owner,
	DeleteRoom:          owner,
	ManageUsers:         never,
}

// capabilities is dispatched over the role. Admin is allowed everything but
// still needs to be authenticated.
var capabilities = map[Role]func(Action, Principal, Resource) bool{
	RoleAdmin: func(_ Action, p Principal, _ Resource) bool {
		return !p.IsZero()
	},
	RoleUser: func(a Action, p Principal, res Resource) bool {
		r, ok := userRules[a]
		return ok && r(p, res)
	},
}

// Can returns nil when p may perform a on res, or a Forbidden failure. It
// never touches storage.
func Can(p Principal, a Action, res Resource) error {
	if p.IsZero() {
		return core.UnauthorizedError("")
	}

	check, ok := capabilities[p.Role]
	if !ok || !check(a, p, res) {
		return core.Forbiddenf("not allowed to %s", a)
	}

	return nil
}
