package utils

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboticgen/nexus/config"
)

func init() {
	config.Set(config.AppConfig{JWTSecret: "test-secret"})
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(7, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Tampered(t *testing.T) {
	token, err := GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestBlacklistInMemory(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsTokenBlacklisted(ctx, "jti-1"))

	BlacklistToken(ctx, "jti-1", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(ctx, "jti-1"))

	// already expired tokens are not stored
	BlacklistToken(ctx, "jti-2", time.Now().Add(-time.Second))
	assert.False(t, IsTokenBlacklisted(ctx, "jti-2"))
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse!"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hi", Sanitize(`<script>alert(1)</script>hi`))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
	assert.Equal(t, "bold", SanitizePlain("  <b>bold</b> "))
}

func TestCacheDisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	key := PostDetailCacheKey(12)
	CacheSetJSON(ctx, key, []int{1}, PostDetailCacheTTL)
	var out []int
	assert.False(t, CacheGetJSON(ctx, key, &out))
	CacheDelete(ctx, key)
	assert.Equal(t, "posts:detail:12", key)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), time.Second, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
