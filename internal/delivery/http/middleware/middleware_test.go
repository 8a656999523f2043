package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"candidate-boutique/internal/delivery/http/middleware"
	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"
	"candidate-boutique/pkg/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthUC struct {
	users map[string]domain.User
}

func (s stubAuthUC) LoadActor(_ context.Context, userID, email string) (domain.Actor, error) {
	u, ok := s.users[userID]
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("User not found")
	}
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s stubAuthUC) GetCurrentUser(context.Context) (*domain.User, error) { return nil, nil }
func (s stubAuthUC) CheckEmail(context.Context, string) error             { return nil }

func signHS256(t *testing.T, secret, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	authUC := stubAuthUC{users: map[string]domain.User{
		"user-1":  {ID: "user-1", Email: "rec@firma.pl", Role: domain.RoleUser},
		"admin-1": {ID: "admin-1", Email: "admin@boutique.pl", Role: domain.RoleAdmin},
	}}
	verifier := auth.NewVerifier("secret", nil)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(middleware.RequestID(), middleware.ErrorHandler())
		authed := r.Group("", middleware.AuthMiddleware(verifier, authUC))
		authed.GET("/me", func(c *gin.Context) {
			actor, _ := domain.ActorFromContext(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": c.GetString(string(domain.KeyUserRole))})
		})
		authed.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	t.Run("Should put the actor on the request context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "secret", "user-1"))
		newRouter().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"user-1","role":"user"}`, w.Body.String())
	})

	t.Run("Should reject a missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode(t, w).Success)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "other", "user-1"))
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should reject a valid token without a users row", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "secret", "ghost"))
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "User not found", decode(t, w).Message)
	})

	t.Run("Should deny admin routes to users", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signHS256(t, "secret", "user-1"))
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Access denied", decode(t, w).Message)
	})

	t.Run("Should allow admin routes to admins", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "bearer "+signHS256(t, "secret", "admin-1"))
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.GET("/gone", func(c *gin.Context) { c.Error(apperror.Gone("Invitation has expired")) })
	r.GET("/boom", func(c *gin.Context) { c.Error(errors.New("pq: relation does not exist")) })

	t.Run("Should render app errors with their code", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gone", nil))

		assert.Equal(t, http.StatusGone, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Invitation has expired", body.Message)
		assert.NotEmpty(t, body.RequestID)
		assert.Equal(t, body.RequestID, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("Should hide internal errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware([]string{"https://boutique.pl"}, false))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://boutique.pl")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://boutique.pl", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	cfg := middleware.PublicRateLimitConfig(2, time.Minute)

	run := func(t *testing.T, limiter *middleware.RateLimiter) {
		r := gin.New()
		r.Use(limiter.Middleware(cfg))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			codes = append(codes, w.Code)
			if i == 2 {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
				assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			}
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	}

	t.Run("Should limit in memory without redis", func(t *testing.T) {
		run(t, middleware.NewRateLimiter(nil))
	})

	t.Run("Should limit through redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		run(t, middleware.NewRateLimiter(client))
		assert.True(t, mr.Exists("rl:public:192.0.2.1"))
	})

	t.Run("Should fall back to memory when redis is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer client.Close()
		mr.Close()

		run(t, middleware.NewRateLimiter(client))
	})
}
