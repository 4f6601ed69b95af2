package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeUser  = "user"
	TypeAdmin = "admin"

	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var issuer = "translathon"

// AuthClaims is the bearer-token claims contract. TokenVersion must
// match the user's stored revocation counter for user-typed tokens.
type AuthClaims struct {
	UserID       int64  `json:"userId"`
	Type         string `json:"type"`
	Role         string `json:"role,omitempty"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

func (a *AuthClaims) IsAdmin() bool {
	return a.Type == TypeAdmin || a.Role == RoleAdmin
}

// GenToken signs an access token for the given identity.
func GenToken(userID int64, typ, role string, tokenVersion int, secretKey []byte, accessExpire time.Duration) (string, error) {
	claims := &AuthClaims{
		UserID:       userID,
		Type:         typ,
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessExpire * time.Minute)),
			NotBefore: jwt.NewNumericDate(time.Now()),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken validates the signature and returns the embedded claims.
func ParseToken(aToken, secretKey string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(aToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if authClaims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return authClaims, nil
	}
	return nil, errors.New("invalid token")
}
