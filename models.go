package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is the rank-carrying role of an identity
type Role = string

const (
	// RoleUser is a generic end user
	RoleUser Role = "user"
	// RoleClient is a client account
	RoleClient Role = "client"
	// RoleManager manages clients and users
	RoleManager Role = "manager"
	// RoleAdmin is the top authority rank
	RoleAdmin Role = "admin"
)

// Status is the lifecycle state of an identity
type Status = string

const (
	// StatusUnverified is the initial state of self-registered identities
	StatusUnverified Status = "unverified"
	// StatusActive is a verified, usable identity
	StatusActive Status = "active"
	// StatusArchived is the terminal state; there is no reactivation path
	StatusArchived Status = "archived"
)

// Gender enum values accepted on the profile
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// CredentialType is the kind of secret a credential holds
type CredentialType = string

// CredentialTypePersonalEmail is the only credential type implemented. At most
// one per user; the unique tag below is the storage backstop for the
// application-level duplicate checks.
const CredentialTypePersonalEmail CredentialType = "personal_email"

// Identity is the profile aggregate shared by users, clients and managers.
// The email column carries a unique constraint: the provisioning duplicate
// checks are check-then-act and the constraint is the backstop for the race.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:idn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          Role       `bun:"role,notnull" json:"role,omitempty"`
	Status        Status     `bun:"status,notnull" json:"status,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Gender        string     `bun:"gender" json:"gender,omitempty"`
	Birthday      *time.Time `bun:"birthday,nullzero" json:"birthday,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Address       string     `bun:"address" json:"address,omitempty"`
	Locale        string     `bun:"locale" json:"locale,omitempty"`
	Currency      string     `bun:"currency" json:"currency,omitempty"`
	AvatarPath    string     `bun:"avatar_path" json:"avatar_path,omitempty"`
	ActiveKey     string     `bun:"active_key,nullzero" json:"-"`
	ActiveExpire  *time.Time `bun:"active_expire,nullzero" json:"-"`
	ActivedAt     *time.Time `bun:"actived_at,nullzero" json:"actived_at,omitempty"`
	ArchivedAt    *time.Time `bun:"archived_at,nullzero" json:"archived_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// FullName joins first and last name for display.
func (i *Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// AvatarURL maps the stored avatar path to an absolute URL using the storage
// contract. Returns an empty string when no avatar was uploaded.
func (i *Identity) AvatarURL(storage Storage) string {
	if i.AvatarPath == "" || storage == nil {
		return ""
	}
	return storage.MapURL(i.AvatarPath)
}

// BirthdayDisplay renders the birthday in a human readable form.
func (i *Identity) BirthdayDisplay() string {
	if i.Birthday == nil {
		return ""
	}
	return i.Birthday.Format("January 2, 2006")
}

// EnsureStatus defaults a blank status to unverified.
func (i *Identity) EnsureStatus() {
	if i.Status == "" {
		i.Status = StatusUnverified
	}
}

// Credential is the authentication secret bound to an identity. UserID is a
// relation, not ownership: the credential lifecycle is independent of the
// profile.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID      `bun:"user_id,notnull,type:uuid,unique:uq_credentials_user_type" json:"user_id,omitempty"`
	Type          CredentialType `bun:"type,notnull,unique:uq_credentials_user_type" json:"type,omitempty"`
	Username      string         `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string         `bun:"password_hash,notnull" json:"-"`
	ForgotKey     string         `bun:"forgot_key,nullzero" json:"-"`
	ForgotExpire  *time.Time     `bun:"forgot_expire,nullzero" json:"-"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// RoleEntry is the persisted role reference record. It is read for rank
// comparisons and never mutated by this package.
type RoleEntry struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          Role      `bun:"name,notnull,unique" json:"name,omitempty"`
	Level         int       `bun:"level,notnull" json:"level,omitempty"`
}
