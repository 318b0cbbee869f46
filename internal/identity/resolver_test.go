package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beverage-quiz-service/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	r := NewResolver("secret", false)
	token, err := r.Issue("u1", "Alice", time.Hour)
	require.NoError(t, err)

	user, err := r.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Authenticated("u1", "Alice"), user)

	_, err = NewResolver("other", false).Parse(token)
	assert.Error(t, err, "signature must be checked")
}

func TestParseRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	r := NewResolver("secret", false)
	issued := time.Now().Add(-2 * time.Hour)
	r.now = func() time.Time { return issued }
	expired, err := r.Issue("u1", "", time.Hour)
	require.NoError(t, err)

	r.now = time.Now
	_, err = r.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = r.Parse(unsigned)
	assert.Error(t, err)

	_, err = NewResolver("", false).Parse(expired)
	assert.Error(t, err, "an empty secret disables tokens")
}

func TestFromRequest(t *testing.T) {
	r := NewResolver("secret", true)
	token, err := r.Issue("u1", "Alice", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, "u1", r.FromRequest(req).UserID)

	req = httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	assert.Equal(t, "Alice", r.FromRequest(req).DisplayName)

	req = httptest.NewRequest(http.MethodGet, "/ws?userId=dev&name=Dev", nil)
	assert.Equal(t, domain.Authenticated("dev", "Dev"), r.FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "/ws?userId=dev", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.False(t, r.FromRequest(req).IsAuthenticated(), "a bad token is never replaced by the query fallback")

	strict := NewResolver("secret", false)
	req = httptest.NewRequest(http.MethodGet, "/ws?userId=dev", nil)
	assert.Equal(t, domain.Unauthenticated, strict.FromRequest(req))
}

func TestMiddlewareStoresUser(t *testing.T) {
	r := NewResolver("secret", true)
	var got domain.UserContext
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = FromContext(req.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?userId=u9", nil))
	assert.Equal(t, "u9", got.UserID)

	assert.Equal(t, domain.Unauthenticated, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
