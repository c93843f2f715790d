package domain

import "time"

// Role is the authorization role of a User.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleUserChild Role = "USER_CHILD"
)

// User is the single authoritative user model (Design Note §9.5): internal
// id, external identity-provider subject, public profile, role, guardian
// link and active flag. There is no second competing definition.
type User struct {
	ID               int64     `json:"id"`
	ExternalSubject  *string   `json:"externalSubject,omitempty"`
	Email            string    `json:"email"`
	Name             *string   `json:"name,omitempty"`
	Active           bool      `json:"active"`
	Role             Role      `json:"role"`
	GuardianID       *int64    `json:"guardianId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Validate enforces the guardian invariant: GuardianID is set iff the role
// is USER_CHILD. Cross-row checks (guardian exists and is role USER) are
// performed by the service layer, which has repository access.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrNameRequired
	}
	if u.Role == RoleUserChild && u.GuardianID == nil {
		return ErrGuardianRequired
	}
	if u.Role != RoleUserChild && u.GuardianID != nil {
		return ErrGuardianInvalid
	}
	return nil
}

// UserRepository persists User rows. Users are never hard-deleted, only
// deactivated (Deactivate).
type UserRepository interface {
	GetByID(id int64) (*User, error)
	GetByExternalSubject(subject string) (*User, error)
	GetByEmail(email string) (*User, error)
	Create(user *User) (*User, error)
	Update(user *User) (*User, error)
	Deactivate(id int64) error
}
