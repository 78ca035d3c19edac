package models

import "time"

// User is an identity record. Providers and admins are users with the
// corresponding role; provider operational data lives on the profile.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	FirstName    string    `bson:"firstName" json:"firstName"`
	LastName     string    `bson:"lastName" json:"lastName"`
	PhoneNumber  string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Role         Role      `bson:"role" json:"role"`
	IsDeleted    bool      `bson:"isDeleted" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// FullName joins the user's first and last names for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterInput is the payload for user registration.
type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginInput is the payload for authentication.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued bearer token and the authenticated user.
// ProviderStatus mirrors the custom token claim; it is refreshed only by
// re-authentication, so a freshly approved provider must log in again to act
// as one.
type AuthResponse struct {
	Token          string `json:"token"`
	User           User   `json:"user"`
	ProviderStatus string `json:"providerStatus,omitempty"`
}
