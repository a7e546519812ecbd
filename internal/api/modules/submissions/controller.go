package submissions

import (
	"net/http"
	"strconv"

	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ListSubmissions handles GET requests listing upload receipts, newest first
func ListSubmissions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "limit must be between 1 and 500", nil).AsGinResponse())
		return
	}

	list, err := service.Submissions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list submissions", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Submissions retrieved successfully", list).AsGinResponse())
}
