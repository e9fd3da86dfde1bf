package domain

import "time"

// Role is the privilege level carried by an account and its tokens.
type Role string

const (
	// RoleAdmin is the elevated role: full content control, account creation,
	// site configuration and tag taxonomy.
	RoleAdmin Role = "admin"
	// RoleEditor is the standard role: may create content and edit what it owns.
	RoleEditor Role = "editor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// User models an account able to sign in to the newsroom.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the assertion embedded in a session token. It is produced at
// login and never persisted.
type Identity struct {
	Subject   string    `json:"sub"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Elevated reports whether the identity holds the admin role.
func (i *Identity) Elevated() bool {
	return i != nil && i.Role == RoleAdmin
}

// Owns reports whether the identity is the recorded owner. Unowned
// resources are owned by nobody.
func (i *Identity) Owns(ownerID *int64) bool {
	return i != nil && ownerID != nil && *ownerID == i.UserID
}
