package middleware

import (
	midsec "PMeet/middleware/security"

	"github.com/gin-gonic/gin"
)

type RouteOpt struct {
	IsAuth bool
}

var authOpts *midsec.Options

// ConfigAuth installs the auth options used by protected routes.
// Call once from main() before registering routes.
func ConfigAuth(opts *midsec.Options) { authOpts = opts }

func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(authOpts), handler)
	} else {
		r.POST(path, handler)
	}
}

func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(authOpts), handler)
	} else {
		r.GET(path, handler)
	}
}
