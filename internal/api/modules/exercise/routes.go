package exercise

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the intake and trial pages
func RegisterRoutes(g *gin.RouterGroup, ctl *Controller) {
	g.GET("/", ctl.ShowIntake)          // Intake form
	g.POST("/intake", ctl.SubmitIntake) // Submit intake, start trial
	g.GET("/trial", ctl.ShowTrial)      // Current prompt
	g.POST("/trial/next", ctl.NextRound) // Record round, draw next prompt
	g.POST("/trial/finish", ctl.Finish)  // Upload session
}
