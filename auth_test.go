package rolekitclient

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenAuthApply(t *testing.T) {
	auth := NewTokenAuth("opaque-token")
	req, _ := http.NewRequest(http.MethodGet, "https://roles.example.com/api/roles", nil)

	require.NoError(t, auth.Apply(req))
	assert.Equal(t, "Bearer opaque-token", req.Header.Get("Authorization"))
}

func TestTokenAuthNoToken(t *testing.T) {
	auth := NewTokenAuth("")
	req, _ := http.NewRequest(http.MethodGet, "https://roles.example.com/api/roles", nil)

	err := auth.Apply(req)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenAuthExpiredJWT(t *testing.T) {
	auth := NewTokenAuth(signedJWT(t, time.Now().Add(-time.Hour)))
	assert.True(t, auth.Expired())

	req, _ := http.NewRequest(http.MethodGet, "https://roles.example.com/api/roles", nil)
	err := auth.Apply(req)
	assert.Error(t, err)
	assert.True(t, IsTokenExpired(err))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestTokenAuthValidJWT(t *testing.T) {
	auth := NewTokenAuth(signedJWT(t, time.Now().Add(time.Hour)))
	assert.False(t, auth.Expired())

	req, _ := http.NewRequest(http.MethodGet, "https://roles.example.com/api/roles", nil)
	require.NoError(t, auth.Apply(req))
	assert.Contains(t, req.Header.Get("Authorization"), "Bearer ")
}

func TestTokenAuthOpaqueNeverExpires(t *testing.T) {
	auth := NewTokenAuth("not-a-jwt")
	assert.False(t, auth.Expired())
}

func TestTokenAuthSetToken(t *testing.T) {
	auth := NewTokenAuth(signedJWT(t, time.Now().Add(-time.Hour)))
	assert.True(t, auth.Expired())

	fresh := signedJWT(t, time.Now().Add(time.Hour))
	auth.SetToken(fresh)
	assert.False(t, auth.Expired())
	assert.Equal(t, fresh, auth.Token())
}

func TestTokenAuthNeverRetries(t *testing.T) {
	auth := NewTokenAuth("tok")
	assert.False(t, auth.Recover(context.Background(), http.DefaultClient, StatusCSRFMismatch))
	assert.False(t, auth.Recover(context.Background(), http.DefaultClient, http.StatusUnauthorized))
}

func TestSessionAuthDefaults(t *testing.T) {
	sess, err := NewSessionAuth("https://roles.example.com")
	require.NoError(t, err)

	assert.NotNil(t, sess.Jar())
	assert.Empty(t, sess.CSRFToken())
}

func TestSessionAuthApplyMutatingOnly(t *testing.T) {
	base := "https://roles.example.com"
	sess, err := NewSessionAuth(base)
	require.NoError(t, err)

	// Seed the jar with a CSRF cookie as if a handshake happened.
	u, _ := url.Parse(base)
	sess.Jar().SetCookies(u, []*http.Cookie{{Name: "XSRF-TOKEN", Value: "tok-1", Path: "/"}})
	assert.Equal(t, "tok-1", sess.CSRFToken())

	get, _ := http.NewRequest(http.MethodGet, base+"/api/roles", nil)
	require.NoError(t, sess.Apply(get))
	assert.Empty(t, get.Header.Get("X-XSRF-TOKEN"))

	post, _ := http.NewRequest(http.MethodPost, base+"/api/roles", nil)
	require.NoError(t, sess.Apply(post))
	assert.Equal(t, "tok-1", post.Header.Get("X-XSRF-TOKEN"))

	del, _ := http.NewRequest(http.MethodDelete, base+"/api/roles/r1", nil)
	require.NoError(t, sess.Apply(del))
	assert.Equal(t, "tok-1", del.Header.Get("X-XSRF-TOKEN"))
}

func TestSessionAuthCustomNames(t *testing.T) {
	base := "https://roles.example.com"
	sess, err := NewSessionAuth(base,
		WithCSRFCookie("MY-CSRF"),
		WithCSRFHeader("X-MY-CSRF"),
		WithHandshakePath("/auth/csrf"))
	require.NoError(t, err)

	u, _ := url.Parse(base)
	sess.Jar().SetCookies(u, []*http.Cookie{{Name: "MY-CSRF", Value: "tok-9", Path: "/"}})

	post, _ := http.NewRequest(http.MethodPost, base+"/api/roles", nil)
	require.NoError(t, sess.Apply(post))
	assert.Equal(t, "tok-9", post.Header.Get("X-MY-CSRF"))
	assert.Empty(t, post.Header.Get("X-XSRF-TOKEN"))
}

func TestSessionAuthHandshake(t *testing.T) {
	api := newFakeAPI(t)
	sess, err := NewSessionAuth(api.URL())
	require.NoError(t, err)

	httpc := &http.Client{Jar: sess.Jar()}
	require.NoError(t, sess.Handshake(context.Background(), httpc))
	assert.Equal(t, 1, api.handshakeCount())
	assert.Equal(t, "csrf-1", sess.CSRFToken())
}

func TestSessionAuthRecoverOnlyOn419(t *testing.T) {
	api := newFakeAPI(t)
	sess, err := NewSessionAuth(api.URL())
	require.NoError(t, err)

	httpc := &http.Client{Jar: sess.Jar()}
	assert.False(t, sess.Recover(context.Background(), httpc, http.StatusUnauthorized))
	assert.Equal(t, 0, api.handshakeCount())

	assert.True(t, sess.Recover(context.Background(), httpc, StatusCSRFMismatch))
	assert.Equal(t, 1, api.handshakeCount())
}
