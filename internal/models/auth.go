package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of access tokens issued by the external
// identity provider. Only user id and email are consumed here.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
