// Package middleware provides the HTTP middleware chain: the auth gate
// and request logging.
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/ctxutil"
	"github.com/eventhub/eventhub/logging/logger"
	"github.com/eventhub/eventhub/net/resp"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
)

// Auth gate rejection messages. These are part of the wire contract;
// clients key their session-expiry handling off the 401 status.
const (
	MsgNoToken      = "No token, authorization denied"
	MsgTokenExpired = "Token expired"
	MsgTokenInvalid = "Token is not valid"
)

// AuthMiddleware verifies the bearer token and attaches the resolved
// identity to the request context. The only accepted transport is the
// `Authorization: Bearer <token>` header; a token sent any other way is
// treated as absent.
func AuthMiddleware(tokenManager *securityjwt.TokenManager, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c.GetHeader("Authorization"))
		if !ok {
			resp.Fail(c.Writer, resp.UnAuthorized(MsgNoToken))
			c.Abort()
			return
		}

		identity, err := tokenManager.Verify(token)
		if err != nil {
			log.Warn(c.Request.Context(), "token rejected", "error", err)
			if errors.Is(err, securityjwt.ErrExpired) {
				resp.Fail(c.Writer, resp.UnAuthorized(MsgTokenExpired))
			} else {
				resp.Fail(c.Writer, resp.UnAuthorized(MsgTokenInvalid))
			}
			c.Abort()
			return
		}

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		ctx = ctxutil.SetUserID(ctx, identity.UserID)
		ctx = ctxutil.SetUsername(ctx, identity.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractBearer pulls the token out of an Authorization header value.
func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetCurrentUserID retrieves the authenticated user id from the context.
func GetCurrentUserID(c *gin.Context) (string, bool) {
	id := ctxutil.GetUserID(c.Request.Context())
	return id, id != ""
}
