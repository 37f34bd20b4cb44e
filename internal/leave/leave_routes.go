package leave

import (
	"github.com/way-wise/company-site-backend-sub001/internal/middleware"
	"github.com/way-wise/company-site-backend-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer rbac.Enforcer,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		leaves.GET("/me", handler.GetMine)
		leaves.GET("", middleware.Authorize(enforcer, "leave", "read_all"), handler.GetAll)
		leaves.GET("/:id", handler.GetById)
		if redisClient != nil {
			leaves.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RateLimitByUser(rate.Limit(2), 5),
				handler.Submit,
			)
		} else {
			leaves.POST("", middleware.RateLimitByUser(rate.Limit(2), 5), handler.Submit)
		}
		leaves.PATCH("/:id/decide", middleware.Authorize(enforcer, "leave", "decide"), handler.Decide)
		leaves.DELETE("/:id", handler.Cancel)
	}
}
