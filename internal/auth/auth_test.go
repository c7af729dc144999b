package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/config"
	"github.com/EncryptEx/ichack26/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openStore(t *testing.T) *storage.FileStorage {
	dir := t.TempDir()
	s, err := storage.NewFileStorage(storage.FilePaths{
		Users:     filepath.Join(dir, "users.json"),
		Dreams:    filepath.Join(dir, "dreams.json"),
		Comments:  filepath.Join(dir, "comments.json"),
		Overrides: filepath.Join(dir, "overrides.json"),
	}, internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func localProvider(t *testing.T) *LocalAuthProvider {
	return NewLocalAuthProvider(openStore(t), internal.NopLogger())
}

func TestLocalAuthProvider(t *testing.T) {
	p := localProvider(t)
	ctx := context.Background()

	u, err := p.ValidateTokenLocal(ctx, "MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "user1", u.ID)

	u, err = p.ValidateTokenLocal(ctx, "MOCK-TOKEN-3")
	require.NoError(t, err)
	assert.Equal(t, "user3", u.ID)

	_, err = p.ValidateTokenLocal(ctx, "nope")
	assert.ErrorIs(t, err, internal.ErrUnauthorized)

	_, err = p.ValidateTokenLocal(ctx, "")
	assert.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestRemoteAuthProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Token != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(internal.User{ID: "user4", Name: "Sofia"})
	}))
	defer srv.Close()

	p := NewRemoteAuthProvider(srv.URL, openStore(t), internal.NopLogger())
	u, err := p.ValidateTokenRemote(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "user4", u.ID)

	_, err = p.ValidateTokenRemote(context.Background(), "bad")
	assert.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestRemoteAuthProvider_RecordsNewUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(internal.User{ID: "u-42", Token: "remote-secret", Name: "Remote Rita"})
	}))
	defer srv.Close()

	store := openStore(t)
	ctx := context.Background()
	p := NewRemoteAuthProvider(srv.URL, store, internal.NopLogger())

	u, err := p.ValidateTokenRemote(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, "u-42", u.ID)
	assert.Empty(t, u.Token)

	stored, err := store.GetUser(ctx, "u-42")
	require.NoError(t, err)
	assert.Equal(t, "Remote Rita", stored.Name)

	_, err = store.GetUserByToken(ctx, "remote-secret")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	// A rename sticks even though the auth service keeps the old name.
	_, err = store.RenameUser(ctx, "u-42", "Rita")
	require.NoError(t, err)
	u, err = p.ValidateTokenRemote(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, "Rita", u.Name)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{Env: "development"}
	r := gin.New()
	r.Use(AuthMiddleware(localProvider(t), cfg))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer MOCK-TOKEN-2", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token MOCK-TOKEN", http.StatusUnauthorized},
		{"unknown", "Bearer WRONG", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"user2"}`, w.Body.String())
			}
		})
	}
}
