package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs every request once the rest of the chain has run.
func RequestLogger(proxies TrustedProxies) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("remote_ip", proxies.ClientIP(c)).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
