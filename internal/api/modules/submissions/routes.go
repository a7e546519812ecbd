package submissions

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/parlavoice/internal/api/modules/exercise"
	"github.com/gin-gonic/gin"
)

var service *exercise.Service

// Register routes for the submissions module
func RegisterRoutes(g *gin.RouterGroup, svc *exercise.Service, validator func(key string) bool) {
	service = svc

	group := g.Group("/submissions")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(validator))

	group.GET("", ListSubmissions)
}
