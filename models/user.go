package models

import (
	"time"
)

type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"` // "-" means don't include in JSON
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// Profile shares its ID with the owning User.
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// Token is the server-side record of an issued bearer token. Deleting it
// revokes the token.
type Token struct {
	ID         string     `bson:"_id"`
	UserID     string     `bson:"userId"`
	CreatedAt  time.Time  `bson:"createdAt"`
	ExpiresAt  *time.Time `bson:"expiresAt,omitempty"`
	LastUsedAt *time.Time `bson:"lastUsedAt,omitempty"`
}

func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// Identity is the authenticated caller, resolved once per request and handed
// to every service call.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Phone   string
	Role    Role
	TokenID string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
