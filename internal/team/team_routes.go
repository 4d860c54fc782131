package team

import (
	"go-lams/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	assignments := r.Group("/team")
	assignments.Use(authn, middleware.ManagerOnly())
	{
		assignments.POST("/assignments", handler.AssignManager)
	}
}
