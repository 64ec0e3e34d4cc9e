package security

import (
	"net/http"
	"strings"

	"PMeet/tools/errs"
	jwtlib "PMeet/tools/security"

	"github.com/gin-gonic/gin"
)

// Context keys downstream handlers read the verified identity from.
const (
	CtxTokenKey  = "authorization"
	CtxUserIDKey = "authUserId"
)

type Options struct {
	HeaderToken               string // default "authorization"
	EnableAuthorizationBearer bool   // default true

	JWT jwtlib.Options
}

func DefaultOptions(jwt jwtlib.Options) *Options {
	return &Options{
		HeaderToken:               CtxTokenKey,
		EnableAuthorizationBearer: true,
		JWT:                       jwt,
	}
}

// Middleware extracts the bearer credential, verifies it and stores the
// subject into the gin context. Requests without a valid token are rejected
// before the handler runs.
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		// accept Authorization: Bearer xxx
		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid.WithDetail("no token provided"))
			return
		}

		claims, err := jwtlib.Verify(opts.JWT, token, "")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrTokenInvalid.WithDetail(err.Error()))
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, claims.Subject())
		c.Next()
	}
}
