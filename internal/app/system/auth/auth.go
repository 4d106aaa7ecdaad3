package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Principal is the verified caller carried in r.Context().
type Principal struct {
	ID    string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the principal & “found?” flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Principal)
	return u, ok && u != nil
}

// WithTestUser injects a principal directly, bypassing token verification.
// Intended for handler tests.
func WithTestUser(r *http.Request, p *Principal) *http.Request {
	return withUser(r, p)
}

func withUser(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bearer tokens                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the token payload: {id, email, role} plus registered claims.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var (
	// ErrInvalidToken covers malformed, expired, and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenManager issues and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewTokenManager validates the secret and returns a manager.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, log: logger, now: time.Now}, nil
}

// Issue signs a token for p.
func (tm *TokenManager) Issue(p Principal) (string, error) {
	now := tm.now()
	claims := Claims{
		ID:    p.ID,
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Parse verifies raw and returns its principal.
func (tm *TokenManager) Parse(raw string) (*Principal, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil || !tok.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{ID: claims.ID, Email: claims.Email, Role: strings.ToLower(claims.Role)}, nil
}

// LoadBearerUser injects the principal into context when a valid
// "Authorization: Bearer" header is present. Invalid tokens are ignored here;
// RequireSignedIn turns the missing principal into 401.
func (tm *TokenManager) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		p, err := tm.Parse(raw)
		if err != nil {
			tm.log.Debug("bearer token rejected", zap.String("path", r.URL.Path), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, p))
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Guards                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn ensures there is a principal in context (set by LoadBearerUser).
func (tm *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return RequireSignedIn(next)
}

// RequireRole ensures the principal holds one of the allowed roles.
func (tm *TokenManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return RequireRole(allowed...)
}

// RequireSignedIn responds 401 when no principal is present.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			apperr.Write(w, apperr.Unauthorizedf("missing or invalid bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole responds 401 without a principal and 403 when the role is not allowed.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apperr.Write(w, apperr.Unauthorizedf("missing or invalid bearer token"))
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				apperr.Write(w, apperr.Forbiddenf("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
