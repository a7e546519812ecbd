package health

import (
	"github.com/ethanbaker/parlavoice/internal/api/modules/exercise"
	"github.com/gin-gonic/gin"
)

var service *exercise.Service

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, svc *exercise.Service) {
	service = svc

	g.GET("/health", getStatus)
}
