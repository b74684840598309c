package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preschool/internal/apperr"
)

func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(m))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": ActorFrom(c).Role, "sid": SessionIDFrom(c)})
	})
	r.GET("/private", RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemorySessionStore(), "secret", "preschool", time.Hour)

	_, err := m.Start(ctx, Anonymous)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	actor := Actor{UserID: 9, Email: "a@x.com", Role: RoleAdmin}
	tok, err := m.Start(ctx, actor)
	require.NoError(t, err)

	got, sid, err := m.Resolve(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, actor, got)

	require.NoError(t, m.End(ctx, sid))
	_, _, err = m.Resolve(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, _, err = m.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestManagerRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemorySessionStore(), "secret", "preschool", time.Hour)
	tok, err := m.Start(ctx, Actor{UserID: 4, Role: RoleTeacher})
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, 4))
	_, _, err = m.Resolve(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestSessionAuthMiddleware(t *testing.T) {
	m := NewManager(NewMemorySessionStore(), "secret", "preschool", time.Hour)
	r := newTestRouter(m)
	tok, err := m.Start(context.Background(), Actor{UserID: 1, Role: RolePrincipal})
	require.NoError(t, err)

	rec := doGet(r, "/whoami", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"anonymous"`)

	rec = doGet(r, "/whoami", tok.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"principal"`)

	rec = doGet(r, "/whoami", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGet(r, "/private", tok.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionAuthRejectsNonBearer(t *testing.T) {
	r := newTestRouter(NewManager(NewMemorySessionStore(), "secret", "preschool", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
