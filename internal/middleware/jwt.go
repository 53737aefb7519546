package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/noah-isme/sma-guardian-tools/pkg/errors"
	"github.com/noah-isme/sma-guardian-tools/pkg/response"
)

// ContextCallerKey is the gin context key storing the verified caller claims.
const ContextCallerKey = "toolCaller"

// errInvalidCaller keeps the code of ErrUnauthorized but does not talk about PINs.
var errInvalidCaller = appErrors.Clone(appErrors.ErrUnauthorized, "Invalid or missing webhook token.")

// WebhookAuth requires an HS256 bearer token signed with secret. An empty
// secret leaves the routes open.
func WebhookAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, errInvalidCaller)
			c.Abort()
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			response.Error(c, appErrors.Wrap(err, errInvalidCaller.Code, errInvalidCaller.Status, errInvalidCaller.Message))
			c.Abort()
			return
		}

		c.Set(ContextCallerKey, claims)
		c.Next()
	}
}
