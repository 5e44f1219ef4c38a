package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

const (
	tokenIssuer   = "linkedin-scheduler"
	sessionAud    = "session"
	oauthStateAud = "oauth-state"
)

// GenerateToken signs a session token for a LinkedIn member.
func GenerateToken(secretKey, userURN string, tokenDuration time.Duration) (string, error) {
	return sign(secretKey, userURN, sessionAud, tokenDuration)
}

func ValidateToken(secretKey, tokenString string) (*transfer.CustomClaims, error) {
	return parse(secretKey, tokenString, sessionAud)
}

// GenerateStateToken signs the OAuth state value. It is not accepted as a
// session token.
func GenerateStateToken(secretKey string, tokenDuration time.Duration) (string, error) {
	return sign(secretKey, "", oauthStateAud, tokenDuration)
}

func ValidateStateToken(secretKey, tokenString string) error {
	_, err := parse(secretKey, tokenString, oauthStateAud)
	return err
}

func sign(secretKey, userURN, audience string, tokenDuration time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.CustomClaims{
		UserURN: userURN,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func parse(secretKey, tokenString, audience string) (*transfer.CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
