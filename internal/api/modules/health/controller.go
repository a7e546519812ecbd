package health

import (
	"net/http"

	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Return status of the API. A missing prompt catalog marks the service as
// degraded since no trial can start
func getStatus(c *gin.Context) {
	status := service.Health()

	res := sdk.NewSuccessResponse(status.Status, status)
	if status.CatalogError != "" {
		res.Code = http.StatusServiceUnavailable
	}
	c.JSON(res.AsGinResponse())
}
