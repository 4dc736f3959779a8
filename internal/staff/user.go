package staff

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin  = "admin"
	RoleWaiter = "waiter"
	RoleChef   = "chef"
)

type User struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	// Hidden users are operational accounts kept out of admin listings.
	Hidden    bool      `json:"hidden,omitempty" bson:"hidden,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) ResourceType() string {
	return "user"
}

func (u *User) SetID(id uuid.UUID) {
	u.ID = id
}

func NewUser(username, role string) *User {
	return &User{
		ID:       apt.GenerateNewID(),
		Username: username,
		Role:     role,
	}
}

func (u *User) EnsureID() {
	if u.ID == uuid.Nil {
		u.ID = apt.GenerateNewID()
	}
}

func (u *User) BeforeCreate() {
	u.EnsureID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now()
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleWaiter, RoleChef:
		return true
	}
	return false
}
