package lineauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gokon/pkg/cache"
	"gokon/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID     = "user_id"
	ContextLineUserID = "line_user_id"

	resolveTTL = 10 * time.Minute
)

// UserResolver maps verified LINE claims to a local user id, creating the
// user on first sight.
type UserResolver func(ctx context.Context, claims *Claims) (string, error)

type Authenticator struct {
	verifier TokenVerifier
	resolve  UserResolver
	cache    cache.Cache
	logger   logger.Logger
}

func NewAuthenticator(verifier TokenVerifier, resolve UserResolver, cache cache.Cache, logger logger.Logger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		resolve:  resolve,
		cache:    cache,
		logger:   logger,
	}
}

// Middleware requires a valid "Authorization: Bearer <id token>" header and
// stores the caller's user id under "user_id".
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := a.verifier.Verify(ctx, raw)
		if err != nil {
			a.logger.Debug(ctx, "id token rejected", logger.Field{Key: "error", Value: err})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}

		userID, err := a.userID(ctx, claims)
		if err != nil {
			a.logger.Error(ctx, "failed to resolve user",
				logger.Field{Key: "line_user_id", Value: claims.Subject},
				logger.Field{Key: "error", Value: err},
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextLineUserID, claims.Subject)
		c.Next()
	}
}

func (a *Authenticator) userID(ctx context.Context, claims *Claims) (string, error) {
	key := "auth:line:" + claims.Subject
	if a.cache != nil {
		if raw, err := a.cache.Get(ctx, key); err == nil {
			return string(raw), nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			a.logger.Warn(ctx, "auth cache read failed", logger.Field{Key: "error", Value: err})
		}
	}

	userID, err := a.resolve(ctx, claims)
	if err != nil {
		return "", err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, []byte(userID), resolveTTL); err != nil {
			a.logger.Warn(ctx, "auth cache write failed", logger.Field{Key: "error", Value: err})
		}
	}
	return userID, nil
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
