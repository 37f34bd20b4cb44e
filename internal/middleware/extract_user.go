package middleware

import (
	"net/http"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractUserID re-checks the auth context and pins user_id down to a
// non-empty string under a separate key so handlers never type-assert.
func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get("user_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			ctx.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			ctx.Abort()
			return
		}

		ctx.Set("user_id_validated", userIDStr)
		ctx.Next()
	}
}
