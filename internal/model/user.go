package model

import "time"

// Role is the typed rendition of the account role carried in the session
// token. Access checks take an explicit allowed-roles set; there is no
// variadic string matching anywhere else.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleLearner Role = "LEARNER"
)

// Valid reports whether the role is one of the known enumeration values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLearner
}

// Identity is the decoded request identity attached to the context by the
// authentication gate and consumed by the downstream access predicates.
type Identity struct {
	UserID             string
	Role               Role
	SubscriptionStatus SubscriptionStatus
}

// User represents a user in the system
type User struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
