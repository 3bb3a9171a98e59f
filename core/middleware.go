package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware resolves the request identity from an "Authorization: Bearer"
// header. A valid token attaches the subject to this request's context, at
// most once per request; any missing, malformed, or invalid credential leaves
// the request unauthenticated and passes it through. Rejecting anonymous
// requests is the job of the handlers behind requirePrincipal, not of this
// middleware.
func AuthMiddleware(codec *TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				if subject, err := codec.Decode(parts[1]); err == nil {
					if _, exists := c.Get(principalKey); !exists {
						c.Set(principalKey, subject)
					}
				}
			}
		}
		c.Next()
	}
}

// principalFromContext returns the authenticated subject for this request,
// or "" when the request is unauthenticated.
func principalFromContext(c *gin.Context) string {
	v, ok := c.Get(principalKey)
	if !ok {
		return ""
	}
	subject, _ := v.(string)
	return subject
}

// requirePrincipal enforces the access policy for protected endpoints.
func requirePrincipal(c *gin.Context) (string, bool) {
	subject := principalFromContext(c)
	if subject == "" {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return subject, true
}

// CORSMiddleware validates Origin/Referer against the allowed list and sets
// CORS headers.
func CORSMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if origin == "" {
			// Same-origin navigation (no Origin header) is allowed.
			return true
		}
		if len(allowed) == 0 {
			return false
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		referer := c.GetHeader("Referer")
		if origin == "" && referer != "" {
			if u, err := url.Parse(referer); err == nil {
				origin = u.Scheme + "://" + u.Host
			}
		}

		// Preflight handling
		if c.Request.Method == http.MethodOptions && origin != "" {
			if !isAllowed(origin) {
				respondError(c, http.StatusForbidden, "Origin not allowed")
				c.Abort()
				return
			}
			setCORSHeaders(c, origin)
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		if !isAllowed(origin) {
			respondError(c, http.StatusForbidden, "Origin not allowed")
			c.Abort()
			return
		}
		if origin != "" {
			setCORSHeaders(c, origin)
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
}
