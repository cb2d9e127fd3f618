package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"little-lemon-api/utils"
)

// UserRateLimiter keeps one token bucket per caller. Authenticated requests
// are keyed by user id so the ceiling follows the account, not the address;
// anonymous requests (login/register) fall back to client IP.
type UserRateLimiter struct {
	perMinute int
	buckets   map[string]*rate.Limiter
	mu        sync.Mutex
}

func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	return &UserRateLimiter{
		perMinute: perMinute,
		buckets:   make(map[string]*rate.Limiter),
	}
}

func (rl *UserRateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.buckets[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
		rl.buckets[key] = limiter
	}
	return limiter
}

func (rl *UserRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("user_id"); exists {
			key = fmt.Sprintf("user:%v", userID)
		}

		if !rl.limiterFor(key).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New("request limit exceeded, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
