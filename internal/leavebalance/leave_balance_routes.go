package leavebalance

import (
	"github.com/way-wise/company-site-backend-sub001/internal/middleware"
	"github.com/way-wise/company-site-backend-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer rbac.Enforcer,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		balances.GET("/me", handler.GetMine)
		balances.GET("", middleware.Authorize(enforcer, "leave_balance", "read_all"), handler.GetAll)
		balances.GET("/user/:userProfileId", middleware.Authorize(enforcer, "leave_balance", "read_all"), handler.GetForUser)
		balances.GET("/:id", middleware.Authorize(enforcer, "leave_balance", "read_all"), handler.GetById)
		balances.POST("", middleware.Authorize(enforcer, "leave_balance", "write"), handler.Allocate)
		balances.POST("/allocate-defaults", middleware.Authorize(enforcer, "leave_balance", "write"), handler.AllocateDefaults)
		balances.PUT("/:id", middleware.Authorize(enforcer, "leave_balance", "write"), handler.Update)
		balances.DELETE("/:id", middleware.Authorize(enforcer, "leave_balance", "write"), handler.Delete)
	}
}
