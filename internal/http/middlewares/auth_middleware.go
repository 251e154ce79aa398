package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

const (
	MsgMissingToken  = "Unauthorized: Missing authentication token."
	MsgInvalidFormat = "Unauthorized: Invalid token format."
	MsgInvalidToken  = "Unauthorized: Invalid authentication token."
)

// TokenAuth compares the bearer credential against one shared secret.
type TokenAuth struct {
	secret string
	exact  map[string]struct{}
	// prefixes match a whole path segment: /swagger and /swagger/... but not /swaggerx
	prefixes []string
	log      *slog.Logger
}

// DefaultExemptPaths are the docs and probe routes that never need a token.
var DefaultExemptPaths = []string{"/", "/index.html", "/healthz", "/readyz", "/metrics"}

// DefaultExemptPrefixes are exempt together with everything below them.
var DefaultExemptPrefixes = []string{"/swagger"}

func NewTokenAuth(secret string, log *slog.Logger) *TokenAuth {
	if log == nil {
		log = slog.Default()
	}

	exact := make(map[string]struct{}, len(DefaultExemptPaths))
	for _, p := range DefaultExemptPaths {
		exact[p] = struct{}{}
	}

	return &TokenAuth{
		secret:   secret,
		exact:    exact,
		prefixes: DefaultExemptPrefixes,
		log:      log,
	}
}

func (a *TokenAuth) exempt(path string) bool {
	if _, ok := a.exact[path]; ok {
		return true
	}

	for _, p := range a.prefixes {
		if len(path) < len(p) || !strings.EqualFold(path[:len(p)], p) {
			continue
		}
		if len(path) == len(p) || path[len(p)] == '/' {
			return true
		}
	}

	return false
}

func (a *TokenAuth) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if a.exempt(path) {
			c.Next()
			return
		}

		// Values distinguishes an absent header from one sent empty.
		values := c.Request.Header.Values("Authorization")
		if len(values) == 0 {
			a.reject(c, "Missing Authorization header", MsgMissingToken)
			return
		}

		header := values[0]
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			a.reject(c, "Invalid Authorization header format", MsgInvalidFormat)
			return
		}

		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token != a.secret {
			a.reject(c, "Invalid authentication token", MsgInvalidToken)
			return
		}

		c.Next()
	}
}

func (a *TokenAuth) reject(c *gin.Context, logMsg, body string) {
	a.log.WarnContext(c.Request.Context(), logMsg, "path", c.Request.URL.Path)

	c.Data(http.StatusUnauthorized, "text/plain; charset=utf-8", []byte(body))
	c.Abort()
}
