package exercise

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CookieName = "parlavoice_session"

	defaultAge = 18

	msgIntakeInvalid  = "Preencha todos os campos corretamente."
	msgCatalogMissing = "Não foi possível carregar os textos para o teste de fala."
	msgEmptyText      = "Por favor, transcreva o texto antes de ir para a próxima rodada."
	msgRoundLimit     = "Número máximo de rodadas atingido. Finalize o teste."
	msgUploadFailed   = "Falha ao submeter os dados. Tente novamente."
	msgSubmitted      = "Teste finalizado e dados submetidos com sucesso!"
)

// Controller serves the intake and trial pages
type Controller struct {
	service      *Service
	secureCookie bool
	logger       *zap.Logger
}

// NewController creates the page controller
func NewController(service *Service, secureCookie bool, logger *zap.Logger) *Controller {
	return &Controller{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger.Named("pages"),
	}
}

// browserToken returns the participant's cookie token, issuing one if needed
func (ctl *Controller) browserToken(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(token); err == nil {
			return token
		}
	}

	token := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, 0, "/", "", ctl.secureCookie, true)
	return token
}

/** ---- INTAKE ---- */

// ShowIntake renders the intake form, or sends participants with a running
// trial back to it
func (ctl *Controller) ShowIntake(c *gin.Context) {
	token := ctl.browserToken(c)

	_ = ctl.service.WithBrowser(token, func(m *session.Machine) error {
		if m.Page() == session.PageTrial {
			c.Redirect(http.StatusSeeOther, "/trial")
			return nil
		}

		page := ctl.intakePage(sdk.Intake{})
		if id := c.Query("enviado"); id != "" {
			if _, err := uuid.Parse(id); err == nil {
				page["Success"] = msgSubmitted
			}
		}

		c.HTML(http.StatusOK, "intake.tmpl", page)
		return nil
	})
}

// SubmitIntake captures the intake answers and moves on to the trial
func (ctl *Controller) SubmitIntake(c *gin.Context) {
	token := ctl.browserToken(c)

	var form sdk.Intake
	bindErr := c.ShouldBind(&form)

	_ = ctl.service.WithBrowser(token, func(m *session.Machine) error {
		if m.Page() == session.PageTrial {
			c.Redirect(http.StatusSeeOther, "/trial")
			return nil
		}

		if bindErr != nil {
			page := ctl.intakePage(form)
			page["Error"] = msgIntakeInvalid
			c.HTML(http.StatusBadRequest, "intake.tmpl", page)
			return nil
		}

		if err := m.SubmitIntake(ToIntakeRecord(form)); err != nil {
			page := ctl.intakePage(form)
			page["Error"] = msgIntakeInvalid + " " + err.Error()
			c.HTML(StatusFor(err), "intake.tmpl", page)
			return nil
		}

		ctl.logger.Info("session started", zap.String("session_id", m.Snapshot().SessionID), zap.String("via", "web"))
		c.Redirect(http.StatusSeeOther, "/trial")
		return nil
	})
}

func (ctl *Controller) intakePage(form sdk.Intake) gin.H {
	age := defaultAge
	if form.Age != nil {
		age = *form.Age
	}

	return gin.H{
		"Title":            "Formulário de Informações do Celular",
		"Form":             form,
		"Age":              strconv.Itoa(age),
		"OperatingSystems": session.OperatingSystems,
		"States":           session.OriginStates,
		"Sexes":            session.Sexes,
		"MinAge":           session.MinAge,
		"MaxAge":           session.MaxAge,
	}
}

/** ---- TRIAL ---- */

// ShowTrial renders the prompt on screen, drawing the first one on entry
func (ctl *Controller) ShowTrial(c *gin.Context) {
	token := ctl.browserToken(c)

	_ = ctl.service.WithBrowser(token, func(m *session.Machine) error {
		if m.Page() != session.PageTrial {
			c.Redirect(http.StatusSeeOther, "/")
			return nil
		}

		prompts, err := ctl.service.Prompts()
		if err == nil {
			err = m.EnsurePrompt(prompts)
		}
		if err != nil {
			ctl.renderTrial(c, m, http.StatusServiceUnavailable, gin.H{"Warning": msgCatalogMissing})
			return nil
		}

		ctl.renderTrial(c, m, http.StatusOK, nil)
		return nil
	})
}

// NextRound records the transcription and draws the next prompt
func (ctl *Controller) NextRound(c *gin.Context) {
	token := ctl.browserToken(c)

	var form sdk.RoundRequest
	_ = c.ShouldBind(&form)

	_ = ctl.service.WithBrowser(token, func(m *session.Machine) error {
		if m.Page() != session.PageTrial {
			c.Redirect(http.StatusSeeOther, "/")
			return nil
		}

		prompts, err := ctl.service.Prompts()
		if err == nil {
			err = m.Advance(prompts, form.Transcription)
		}

		switch {
		case err == nil:
			c.Redirect(http.StatusSeeOther, "/trial")
		case errors.Is(err, session.ErrEmptyTranscription):
			ctl.renderTrial(c, m, http.StatusBadRequest, gin.H{"Warning": msgEmptyText})
		case errors.Is(err, session.ErrRoundLimit):
			ctl.renderTrial(c, m, http.StatusConflict, gin.H{"Warning": msgRoundLimit, "Transcription": form.Transcription})
		case errors.Is(err, session.ErrEmptyCatalog):
			ctl.renderTrial(c, m, http.StatusServiceUnavailable, gin.H{"Warning": msgCatalogMissing})
		default:
			c.Redirect(http.StatusSeeOther, "/trial")
		}
		return nil
	})
}

// Finish uploads the session. Success returns to a fresh intake form; a
// failed upload keeps the trial so the participant can retry
func (ctl *Controller) Finish(c *gin.Context) {
	token := ctl.browserToken(c)

	var form sdk.RoundRequest
	_ = c.ShouldBind(&form)

	_ = ctl.service.WithBrowser(token, func(m *session.Machine) error {
		if m.Page() != session.PageTrial {
			c.Redirect(http.StatusSeeOther, "/")
			return nil
		}

		receipt, err := ctl.service.Finalize(c.Request.Context(), m)
		if err != nil {
			ctl.renderTrial(c, m, StatusFor(err), gin.H{
				"Error":         msgUploadFailed + " " + err.Error(),
				"Transcription": form.Transcription,
			})
			return nil
		}

		c.Redirect(http.StatusSeeOther, "/?enviado="+receipt.SessionID)
		return nil
	})
}

func (ctl *Controller) renderTrial(c *gin.Context, m *session.Machine, status int, extra gin.H) {
	snap := m.Snapshot()

	page := gin.H{
		"Title":           "Teste de Transcrição",
		"Ready":           snap.Prompt != "",
		"Prompt":          snap.Prompt,
		"SpeedLabel":      snap.SpeedLabel,
		"RoundsCompleted": len(snap.Rounds),
	}
	for k, v := range extra {
		page[k] = v
	}

	c.HTML(status, "trial.tmpl", page)
}
