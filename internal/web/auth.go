package web

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Auth checks the shared API password against a bcrypt hash.
type Auth struct {
	hash []byte
}

// NewAuth accepts either a plain password, which is hashed, or an existing
// bcrypt hash.
func NewAuth(password string) (*Auth, error) {
	if _, err := bcrypt.Cost([]byte(password)); err == nil {
		return &Auth{hash: []byte(password)}, nil
	}
	if password == "" {
		return nil, fmt.Errorf("api password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash api password: %w", err)
	}
	return &Auth{hash: hash}, nil
}

func (a *Auth) Check(password string) bool {
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}
