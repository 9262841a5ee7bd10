// Package auth verifies signed session tokens issued by the external
// authentication service and turns them into request identities.
package auth

import (
	"errors"
	"fmt"

	"lms/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session-token payload. The subject is the user ID; role and
// subscription status feed the access predicates downstream.
type Claims struct {
	Role         model.Role `json:"role"`
	Subscription struct {
		Status model.SubscriptionStatus `json:"status"`
	} `json:"subscription"`
	jwt.RegisteredClaims
}

// Verifier decodes a session token into an Identity, or fails.
type Verifier interface {
	Verify(token string) (*model.Identity, error)
}

type hmacVerifier struct {
	secret []byte
}

// NewVerifier builds a Verifier over the shared signing secret. The secret
// comes from configuration at construction time.
func NewVerifier(secret string) Verifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v (expected HMAC)", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("token carries unknown role %q", claims.Role)
	}

	return &model.Identity{
		UserID:             claims.Subject,
		Role:               claims.Role,
		SubscriptionStatus: claims.Subscription.Status,
	}, nil
}
