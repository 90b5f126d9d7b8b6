package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InviteClaims is the payload of a group invite deep link. Anyone holding a
// valid token may join the group until the token expires.
type InviteClaims struct {
	GroupID   uint `json:"group_id"`
	InviterID uint `json:"inviter_id"`
	jwt.RegisteredClaims
}

// GenerateInviteToken signs a group invite token for use in a t.me start
// payload.
func GenerateInviteToken(groupID, inviterID uint, secret string, ttl time.Duration) (string, error) {
	claims := &InviteClaims{
		GroupID:   groupID,
		InviterID: inviterID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseInviteToken validates and parses a group invite token.
func ParseInviteToken(tokenString, secret string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*InviteClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
