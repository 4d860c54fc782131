package leavetype

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	types := r.Group("/leave-types")
	types.Use(authn)
	{
		types.GET("", handler.GetAll)
	}
}
