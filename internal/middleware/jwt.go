package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/clinicbill/internal/pkg/errcode"
	"github.com/xxxsen/clinicbill/internal/pkg/jwt"
	"github.com/xxxsen/clinicbill/internal/pkg/response"
)

const (
	ContextSubjectKey = "subject"
	ContextProfileKey = "profile"
)

// JWTAuth guards the group with a bearer token. An empty secret turns the
// guard off so a single-operator deployment can run without tokens.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, errcode.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, errcode.ErrUnauthorized, "invalid authorization")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			response.Error(c, errcode.ErrUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextSubjectKey, claims.Subject)
		if claims.Profile != "" {
			c.Set(ContextProfileKey, claims.Profile)
		}
		c.Next()
	}
}
