package leave

import (
	"go-lams/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc) {
	requests := r.Group("/leave-requests")
	requests.Use(authn)
	{
		requests.POST("", handler.Create)
		requests.GET("", handler.ListOwn)
		requests.GET("/team", middleware.ManagerOnly(), handler.ListTeam)
		requests.GET("/:id", handler.GetByID)
		requests.PATCH("/:id/approve", middleware.ManagerOnly(), handler.Approve)
		requests.PATCH("/:id/reject", middleware.ManagerOnly(), handler.Reject)
	}

	balances := r.Group("/leave-balances")
	balances.Use(authn)
	{
		balances.GET("", handler.OwnBalances)
		balances.GET("/:user_id", middleware.ManagerOnly(), handler.UserBalances)
	}
}
