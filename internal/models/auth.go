package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Claims is the JWT payload: the numeric user id and username, plus the
// registered expiry window.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AvailabilityResult answers a username/email availability check.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
