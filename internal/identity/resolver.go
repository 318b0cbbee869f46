// Package identity turns request credentials into a domain.UserContext.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"beverage-quiz-service/internal/domain"
)

// Claims carries the user of a session token. The subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Resolver validates HS256 bearer tokens. With AllowQueryUser set, a plain
// userId query parameter is accepted as well (development only).
type Resolver struct {
	secret         []byte
	allowQueryUser bool
	now            func() time.Time
}

func NewResolver(secret string, allowQueryUser bool) *Resolver {
	return &Resolver{secret: []byte(secret), allowQueryUser: allowQueryUser, now: time.Now}
}

// Issue signs a token for userID valid for ttl.
func (r *Resolver) Issue(userID, name string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := r.now()
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// Parse validates token and returns its user.
func (r *Resolver) Parse(token string) (domain.UserContext, error) {
	if len(r.secret) == 0 {
		return domain.Unauthenticated, errors.New("token auth is not configured")
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return domain.Unauthenticated, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Unauthenticated, errors.New("token has no subject")
	}
	return domain.Authenticated(claims.Subject, claims.Name), nil
}

// FromRequest resolves the caller of req. Browsers cannot set headers on a
// WebSocket upgrade, so the token may also come in the "token" query parameter.
// Anything missing or invalid yields domain.Unauthenticated.
func (r *Resolver) FromRequest(req *http.Request) domain.UserContext {
	token := ""
	if h := req.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	} else {
		token = req.URL.Query().Get("token")
	}
	if token != "" {
		if user, err := r.Parse(token); err == nil {
			return user
		}
		return domain.Unauthenticated
	}

	if r.allowQueryUser {
		query := req.URL.Query()
		if id := strings.TrimSpace(query.Get("userId")); id != "" {
			return domain.Authenticated(id, query.Get("name"))
		}
	}
	return domain.Unauthenticated
}

type ctxKey struct{}

// Middleware stores the resolved user in the request context.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user := r.FromRequest(req)
		next.ServeHTTP(w, req.WithContext(WithUser(req.Context(), user)))
	})
}

func WithUser(ctx context.Context, user domain.UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the user stored by Middleware, or Unauthenticated.
func FromContext(ctx context.Context) domain.UserContext {
	user, ok := ctx.Value(ctxKey{}).(domain.UserContext)
	if !ok {
		return domain.Unauthenticated
	}
	return user
}
