package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserURN string `json:"user_urn"`
	jwt.RegisteredClaims
}
