package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

const (
	defaultCSP = "default-src 'none'"
	// Swagger UI page needs CDN assets + inline bootstrap script/style.
	swaggerCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data: https:; font-src 'self' https://unpkg.com data:; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com"
)

func securityOptions(csp string, production bool) secure.Options {
	return secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		CustomBrowserXssValue: "0",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: csp,
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}
}

func isDocsPath(path string) bool {
	return path == "/" || path == "/index.html" || strings.HasPrefix(path, "/swagger")
}

func SecurityHeaders(production bool) gin.HandlerFunc {
	api := secure.New(securityOptions(defaultCSP, production))
	docs := secure.New(securityOptions(swaggerCSP, production))

	return func(c *gin.Context) {
		s := api
		if isDocsPath(c.Request.URL.Path) {
			s = docs
		}

		if err := s.Process(c.Writer, c.Request); err != nil {
			// Process already wrote the redirect or rejection.
			c.Abort()
			return
		}

		c.Next()
	}
}
