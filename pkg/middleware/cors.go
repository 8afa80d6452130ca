package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// OriginMatcher reports whether origin is in allowedOrigins. A "*" entry
// allows any origin; trailing slashes are ignored.
func OriginMatcher(allowedOrigins []string) func(origin string) bool {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
			continue
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := allowed[strings.TrimRight(origin, "/")]
		return ok
	}
}

// CORSMiddleware runs go-chi/cors inside the gin chain. Allowed origins are
// echoed back rather than answered with "*" since credentials are allowed.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	isAllowed := OriginMatcher(allowedOrigins)
	handler := cors.New(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return isAllowed(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", TraceIDHeader},
		ExposedHeaders:   []string{TraceIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler

	return func(c *gin.Context) {
		passed := false
		handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		// preflight was answered by cors
		if !passed {
			c.Abort()
		}
	}
}
