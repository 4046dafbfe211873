package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// SecureHeaders sets the browser hardening headers. In production plain
// http requests are redirected to https.
func SecureHeaders(production bool) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})
	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			logutil.GetLogger(c.Request.Context()).Warn("secure check rejected request",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
