package middlewares

import (
	"net/http"
	"strings"

	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves an optional bearer token into the request context.
// Anonymous requests pass through; mutations they perform are attributed to
// the system actor. A present but invalid token is rejected.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), auth)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetActorInContext(ctx, claim.Username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth aborts unless AuthMiddleware resolved an actor.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := utils.GetActorFromContext(c.Request.Context()); !ok || actor == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
