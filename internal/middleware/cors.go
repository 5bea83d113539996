package middleware

import (
	"github.com/m1z23r/drift/pkg/drift"
)

// AllowCredentials lets the browser send the session cookie on cross-origin
// requests from origin. It must run before the CORS middleware so preflight
// responses carry the header too.
func AllowCredentials(origin string) drift.HandlerFunc {
	return func(c *drift.Context) {
		if origin != "" && c.GetHeader("Origin") == origin {
			c.Response.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Response.Header().Add("Vary", "Origin")
		}
		c.Next()
	}
}
