package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role ids seeded by the migrations. Signups default to RoleIDMember.
const (
	RoleIDAdmin     = 1
	RoleIDModerator = 2
	RoleIDSeller    = 3
	RoleIDMember    = 4
)

// Role is the role model.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            int    `bun:"id,pk" json:"id"`
	Name          string `bun:"name,notnull,unique" json:"name"`
}

// User is the user model. Published acts as the active flag: unpublished
// users are soft deleted and excluded from every authentication lookup.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	RoleID         int        `bun:"role_id,notnull,default:4" json:"role_id,omitempty"`
	Published      bool       `bun:"published,notnull,default:true" json:"published"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at,nullzero" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at,nullzero" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DisplayName is the name carried in token claims.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}
	if user.ID == uuid.Nil {
		user.ID = NewID()
	}
	if user.RoleID == 0 {
		user.RoleID = RoleIDMember
	}
	user.Published = true
}

// NewID returns a creation-ordered (v7) identifier. Keyset pagination sorts
// on the id column, so ids must be time-correlated.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4
		// instead of propagating an error through every constructor.
		return uuid.New()
	}
	return id
}

type authIdentity struct {
	id          string
	email       string
	username    string
	displayName string
}

func (a authIdentity) ID() string          { return a.id }
func (a authIdentity) Email() string       { return a.email }
func (a authIdentity) Username() string    { return a.username }
func (a authIdentity) DisplayName() string { return a.displayName }
