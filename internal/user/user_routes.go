package user

import (
	"go-lams/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(authn)
	{
		users.GET("/me", handler.Me)
		users.GET("/team", middleware.ManagerOnly(), handler.Team)
	}
}
