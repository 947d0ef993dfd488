package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsAllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	corsAllowHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		"Mcp-Session-Id", "Mcp-Protocol-Version", "Last-Event-ID",
		RequestIDHeader, "X-Default-Latitude", "X-Default-Longitude",
	}
	corsExposeHeaders = []string{"Mcp-Session-Id", RequestIDHeader}
)

// CORSMiddleware answers preflight requests and sets CORS headers for the
// allowed origins. "*" or an empty list allows any origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  corsAllowMethods,
		AllowHeaders:  corsAllowHeaders,
		ExposeHeaders: corsExposeHeaders,
		MaxAge:        10 * time.Minute,
	}

	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			cfg.AllowAllOrigins = true
		default:
			// cors.New panics on origins without an http(s) scheme
			if strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	switch {
	case cfg.AllowAllOrigins || len(allowedOrigins) == 0:
		cfg.AllowAllOrigins = true
		cfg.AllowOrigins = nil
	case len(cfg.AllowOrigins) == 0:
		cfg.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(cfg)
}
