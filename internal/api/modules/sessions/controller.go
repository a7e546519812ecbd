package sessions

import (
	"errors"
	"net/http"

	"github.com/ethanbaker/parlavoice/internal/api/modules/exercise"
	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/gin-gonic/gin"
)

// CreateSession handles POST requests carrying the intake answers
func CreateSession(c *gin.Context) {
	var req sdk.Intake
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	state, err := service.StartSession(req)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(exercise.StatusFor(err), "Failed to start session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session started successfully", state).AsGinResponse())
}

// GetSession handles GET requests for a running session
func GetSession(c *gin.Context) {
	var state sdk.SessionState
	err := service.WithSession(c.Param("uuid"), func(m *session.Machine) error {
		state = exercise.ToSessionState(m.Snapshot())
		return nil
	})
	if err != nil {
		c.JSON(sdk.NewErrorResponse(exercise.StatusFor(err), "Session not found", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session retrieved successfully", state).AsGinResponse())
}

// PostRound handles POST requests recording a transcription
func PostRound(c *gin.Context) {
	var req sdk.RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	var state sdk.SessionState
	err := service.WithSession(c.Param("uuid"), func(m *session.Machine) error {
		prompts, err := service.Prompts()
		if err != nil {
			return err
		}
		if err := m.Advance(prompts, req.Transcription); err != nil {
			return err
		}

		state = exercise.ToSessionState(m.Snapshot())
		return nil
	})
	if err != nil {
		message := "Failed to record round"
		if errors.Is(err, session.ErrEmptyTranscription) {
			message = "Transcription must not be empty"
		}
		c.JSON(sdk.NewErrorResponse(exercise.StatusFor(err), message, err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Round recorded successfully", state).AsGinResponse())
}

// FinalizeSession handles POST requests uploading a session
func FinalizeSession(c *gin.Context) {
	receipt, err := service.FinalizeSession(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(exercise.StatusFor(err), "Failed to submit session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session submitted successfully", receipt).AsGinResponse())
}

// DeleteSession handles DELETE requests abandoning a session
func DeleteSession(c *gin.Context) {
	if err := service.AbandonSession(c.Param("uuid")); err != nil {
		c.JSON(sdk.NewErrorResponse(exercise.StatusFor(err), "Failed to delete session", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Session deleted successfully").AsGinResponse())
}
