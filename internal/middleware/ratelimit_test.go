package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "keys are independent")
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	time.Sleep(25 * time.Millisecond)
	assert.True(t, l.Allow("k"))
}

func TestRouteLimitKeysOnAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limited := RouteLimit(1, time.Minute)

	run := func(userID uint) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/verify", nil)
		if userID != 0 {
			c.Set("user_id", userID)
		}
		limited(c)
		return c, w
	}

	c, _ := run(42)
	assert.False(t, c.IsAborted())

	c, w := run(42)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	c, _ = run(43)
	assert.False(t, c.IsAborted(), "another user is not throttled")
}
