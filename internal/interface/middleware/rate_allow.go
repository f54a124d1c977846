package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP returns an AllowFunc that bypasses rate limiting for
// requests coming from private or loopback addresses.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := ipFromCtx(c)
		parsed := net.ParseIP(ip)
		if parsed == nil {
			return false
		}
		// 10.0.0.0/8, 172.16/12, 192.168/16, loopback
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
