package middleware

import (
	"context"
	"net/http"
	"strings"

	"lms/internal/apperr"
	"lms/internal/api/v1/response"
	"lms/internal/auth"
	"lms/internal/model"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const identityContextKey = contextKey("identity")

// IdentityFrom returns the authenticated identity attached by Authenticate.
func IdentityFrom(ctx context.Context) (*model.Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*model.Identity)
	return id, ok
}

// AccessPredicate is a pure check over an already-authenticated identity.
// Predicates never touch persisted state; they only accept or reject.
type AccessPredicate func(model.Identity) error

// RoleIn permits identities whose role is in the allowed set.
func RoleIn(roles ...model.Role) AccessPredicate {
	return func(id model.Identity) error {
		for _, role := range roles {
			if id.Role == role {
				return nil
			}
		}
		return apperr.New(apperr.Forbidden, "you do not have permission to access this route")
	}
}

// ActiveSubscriber permits admins unconditionally and everyone else only
// with an active subscription.
func ActiveSubscriber() AccessPredicate {
	return func(id model.Identity) error {
		if id.Role == model.RoleAdmin {
			return nil
		}
		if id.SubscriptionStatus == model.SubscriptionActive {
			return nil
		}
		return apperr.New(apperr.Forbidden, "please subscribe to access this route")
	}
}

// Authenticate verifies the bearer token and attaches the decoded identity
// to the request context. It must run before any Require gate.
func Authenticate(verifier auth.Verifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	authLogger := logger.With().Str("middleware", "Authenticate").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Err(w, authLogger, apperr.New(apperr.Unauthenticated, "unauthenticated, please login"))
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Err(w, authLogger, apperr.New(apperr.Unauthenticated, "invalid authorization header"))
				return
			}
			identity, err := verifier.Verify(parts[1])
			if err != nil {
				authLogger.Debug().Err(err).Msg("Token verification failed")
				response.Err(w, authLogger, apperr.New(apperr.Unauthenticated, "unauthenticated, please login"))
				return
			}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require applies an access predicate to the attached identity. A request
// that somehow reaches it unauthenticated is rejected with 401.
func Require(pred AccessPredicate, logger zerolog.Logger) func(http.Handler) http.Handler {
	gateLogger := logger.With().Str("middleware", "Require").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				response.Err(w, gateLogger, apperr.New(apperr.Unauthenticated, "unauthenticated, please login"))
				return
			}
			if err := pred(*identity); err != nil {
				response.Err(w, gateLogger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain composes gates left to right: Chain(a, b)(h) runs a, then b, then h.
func Chain(gates ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(gates) - 1; i >= 0; i-- {
			next = gates[i](next)
		}
		return next
	}
}
