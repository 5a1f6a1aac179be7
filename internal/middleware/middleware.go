package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/sportsmeet/internal/helpers"
	"github.com/joshua-takyi/sportsmeet/internal/models"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(helpers.RequestIDContextKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get(helpers.RequestIDContextKey)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler logs errors attached with c.Error and answers 500 when the
// handler did not write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		requestID, _ := c.Get(helpers.RequestIDContextKey)
		for _, err := range c.Errors {
			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("internal server error"))
		}
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID, _ := c.Get(helpers.RequestIDContextKey)
		logger.Error("panic recovered",
			"request_id", requestID,
			"panic", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse("internal server error"))
	})
}

type TokenVerifier interface {
	Verify(token string) (*helpers.CustomClaims, error)
}

type AuthConfig struct {
	Verifier TokenVerifier
	// Refresher is optional. When set, an expired or missing access token is
	// renewed from the refresh_token cookie.
	Refresher     models.TokenRefresher
	SecureCookies bool
}

// AuthMiddleware resolves the caller from the bearer token, falling back to
// the access_token cookie, and stores it under helpers.UserContextKey.
func AuthMiddleware(cfg AuthConfig, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			claims *helpers.CustomClaims
			err    = errMissingToken
		)
		token := bearerToken(c)
		if token != "" {
			claims, err = cfg.Verifier.Verify(token)
		}

		// A browser drops an expired access_token cookie, so a missing token
		// still gets a chance to refresh from the refresh_token cookie.
		if err != nil {
			claims, err = refreshSession(c, cfg, logger)
			if err != nil {
				logger.Debug("token rejected", "error", err)
				if token == "" {
					unauthorized(c, "authentication required")
				} else {
					unauthorized(c, "invalid or expired token")
				}
				return
			}
		}

		identity := claims.Identity()
		c.Set(helpers.UserContextKey, &identity)
		c.Next()
	}
}

var (
	errMissingToken = errors.New("no access token provided")
	errNoRefresh    = errors.New("no refresh token available")
)

func refreshSession(c *gin.Context, cfg AuthConfig, logger *slog.Logger) (*helpers.CustomClaims, error) {
	if cfg.Refresher == nil {
		return nil, errNoRefresh
	}
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		return nil, errNoRefresh
	}

	res, err := cfg.Refresher.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		logger.Warn("Token refresh failed", "error", err)
		return nil, err
	}
	if res == nil || res.AccessToken == "" {
		return nil, errors.New("invalid refresh response")
	}

	claims, err := cfg.Verifier.Verify(res.AccessToken)
	if err != nil {
		return nil, err
	}
	logger.Info("Token refreshed successfully", "user_id", claims.Identity().UserID, "expires_in", res.ExpiresIn)

	c.SetCookie("access_token", res.AccessToken, res.ExpiresIn, "/", "", cfg.SecureCookies, true)
	if res.RefreshToken != "" {
		c.SetCookie("refresh_token", res.RefreshToken, 3600*24*30, "/", "", cfg.SecureCookies, true)
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	token, err := c.Cookie("access_token")
	if err != nil {
		return ""
	}
	return token
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(message))
}
