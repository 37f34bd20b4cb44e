package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetAll)
		types.GET("/active", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetActive)
		types.GET("/:id", middleware.Authorize(enforcer, "leave_type", "read"), handler.GetById)
		types.POST("", middleware.Authorize(enforcer, "leave_type", "write"), handler.Create)
		types.PUT("/:id", middleware.Authorize(enforcer, "leave_type", "write"), handler.Update)
		types.PATCH("/:id/toggle-status", middleware.Authorize(enforcer, "leave_type", "write"), handler.ToggleStatus)
		types.DELETE("/:id", middleware.Authorize(enforcer, "leave_type", "write"), handler.Delete)
	}
}
