package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrValidation is wrapped by every Validate failure.
var ErrValidation = errors.New("validation failed")

// Column length limits shared with the DDL
const (
	MaxUsernameLen     = 100
	MaxPasswordHashLen = 200
	MaxNameLen         = 200
	MaxEmailLen        = 200
	MaxCategoryLen     = 50
	MaxURLLen          = 500
	MaxStatusLen       = 50
)

// Admin is a back-office account. Only Bootstrap creates admins.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (a *Admin) Validate() error {
	if err := requireText("username", a.Username, MaxUsernameLen); err != nil {
		return err
	}
	if err := requireText("password_hash", a.PasswordHash, MaxPasswordHashLen); err != nil {
		return err
	}
	return nil
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return maxLen(field, value, max)
}

func maxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, max)
	}
	return nil
}
