package models

import (
	"strings"
	"time"
)

// User mirrors the remote API's user shape. The remote API owns the record;
// the panel only holds per-request copies deserialized from JSON.
type User struct {
	ID                   string     `json:"id"`
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Email                string     `json:"email"`
	UserName             string     `json:"userName"`
	PhoneNumber          string     `json:"phoneNumber"`
	DateOfBirth          *time.Time `json:"dateOfBirth"`
	Gender               string     `json:"gender"`
	Address              string     `json:"address"`
	ProfilePictureURL    string     `json:"profilePictureUrl"`
	IsActive             bool       `json:"isActive"`
	EmailConfirmed       bool       `json:"emailConfirmed"`
	PhoneNumberConfirmed bool       `json:"phoneNumberConfirmed"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            *time.Time `json:"updatedAt"`
	LastLoginDate        *time.Time `json:"lastLoginDate"`
	Roles                []string   `json:"roles"`
}

// FullName joins first and last name, trimming when either is empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Age derives the user's age from the date of birth. The second return
// value is false when no date of birth is known.
func (u User) Age() (int, bool) {
	if u.DateOfBirth == nil {
		return 0, false
	}
	now := time.Now()
	age := now.Year() - u.DateOfBirth.Year()
	if now.YearDay() < u.DateOfBirth.YearDay() {
		age--
	}
	return age, true
}

// LoginSession is the transient token pair returned by the remote login
// endpoint. It is never persisted; both tokens go straight into cookies.
type LoginSession struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// UserStatus is the payload of the remote status-check endpoint.
type UserStatus struct {
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
	Status   string `json:"status"`
}
