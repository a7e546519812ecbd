package sessions

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/ethanbaker/parlavoice/internal/api/modules/exercise"
	"github.com/gin-gonic/gin"
)

var service *exercise.Service

// RegisterRoutes registers the JSON session API behind the API key check
func RegisterRoutes(g *gin.RouterGroup, svc *exercise.Service, validator func(key string) bool) {
	service = svc

	group := g.Group("/sessions")
	group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(validator))

	group.POST("", CreateSession)                    // Submit intake, start a session
	group.GET("/:uuid", GetSession)                  // Current prompt and recorded rounds
	group.POST("/:uuid/rounds", PostRound)           // Record a round
	group.POST("/:uuid/finalize", FinalizeSession)   // Upload the session
	group.DELETE("/:uuid", DeleteSession)            // Abandon the session
}
