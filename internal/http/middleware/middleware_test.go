package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type usersByID map[int]*model.User

func (u usersByID) GetUserByID(id int) (*model.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, errors.New("not found")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTMiddleware(t *testing.T) {
	users := usersByID{7: {ID: 7, Email: "admin@example.com"}}
	r := gin.New()
	r.GET("/me", JWTMiddleware("s3cret", users), func(c *gin.Context) {
		u, ok := GetCurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, u.Email)
	})

	token, err := GenerateJWT(7, "s3cret")
	require.NoError(t, err)
	other, err := GenerateJWT(7, "wrong")
	require.NoError(t, err)
	ghost, err := GenerateJWT(8, "s3cret")
	require.NoError(t, err)

	cases := []struct {
		header string
		code   int
	}{
		{"", http.StatusUnauthorized},
		{"Token " + token, http.StatusUnauthorized},
		{"Bearer " + other, http.StatusUnauthorized},
		{"Bearer " + ghost, http.StatusUnauthorized},
		{"Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, w.Code, tc.header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}

func TestClientIDIssuesAndKeeps(t *testing.T) {
	r := gin.New()
	r.Use(ClientID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetClientID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := w.Header().Get(ClientIDHeader)
	_, err := uuid.Parse(issued)
	require.NoError(t, err)
	assert.Equal(t, issued, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientIDHeader, issued)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, issued, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(60, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterSweepForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	start := time.Now()
	rl.get("10.0.0.1", start)
	rl.get("10.0.0.2", start.Add(9*time.Minute))

	assert.Equal(t, 1, rl.Sweep(start.Add(limiterIdle+time.Minute)))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")

	// a visitor is no longer dropped on someone else's request
	rl.get("10.0.0.3", start.Add(time.Hour))
	assert.Len(t, rl.visitors, 2)
}

func TestRateLimiterRunStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper kept running after cancel")
	}
}
