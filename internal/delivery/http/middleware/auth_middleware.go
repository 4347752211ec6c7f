package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie is the name of the httpOnly cookie set at login.
const AccessTokenCookie = "access_token"

// AuthMiddleware authenticates requests for one actor type. Each actor type
// has its own signing secret, so a seeker token never validates on company
// routes and vice versa.
func AuthMiddleware(tokens *token.Manager, actor domain.ActorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or access_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}
		if domain.ActorType(claims.Actor) != actor {
			response.Error(c, http.StatusForbidden, "Token not valid for this resource", nil)
			c.Abort()
			return
		}

		// Usecases read identity from the request context, so the claims
		// must live there, not only in gin's Keys map.
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, domain.KeyAccountID, claims.AccountID)
		ctx = context.WithValue(ctx, domain.KeyAccountEmail, claims.Email)
		ctx = context.WithValue(ctx, domain.KeyActorType, string(actor))
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(domain.KeyAccountID), claims.AccountID)
		c.Set(string(domain.KeyAccountEmail), claims.Email)
		c.Set(string(domain.KeyActorType), string(actor))

		c.Next()
	}
}
