package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS builds the cross-origin policy from the configured origins. An entry
// of "*" allows any origin, and credentials are then never allowed. An empty
// list denies every cross-origin caller.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	var origins []string
	allowAll := false
	for _, o := range allowedOrigins {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			allowAll = true
		default:
			origins = append(origins, o)
		}
	}

	switch {
	case allowAll:
		corsConfig.AllowAllOrigins = true
	case len(origins) > 0:
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	default:
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	corsConfig.AddAllowHeaders("Authorization", RequestIDHeader)
	corsConfig.AddExposeHeaders(RequestIDHeader)

	return cors.New(corsConfig)
}
