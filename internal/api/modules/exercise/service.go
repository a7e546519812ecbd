package exercise

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethanbaker/parlavoice/internal/stores/registry"
	"github.com/ethanbaker/parlavoice/internal/stores/submission"
	"github.com/ethanbaker/parlavoice/pkg/catalog"
	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/ethanbaker/parlavoice/pkg/storage"
	"go.uber.org/zap"
)

const (
	webPrefix = "web:"
	apiPrefix = "api:"
)

// ServiceConfig holds the collaborators of the exercise service
type ServiceConfig struct {
	Options     session.Options
	Catalog     *catalog.Loader
	CatalogPath string
	Uploader    storage.Backend
	Ledger      submission.Store
	Registry    *registry.Registry
	Logger      *zap.Logger
}

// Service runs the intake/trial flow for browser and API participants
type Service struct {
	opts        session.Options
	catalog     *catalog.Loader
	catalogPath string
	uploader    storage.Backend
	ledger      submission.Store
	registry    *registry.Registry
	logger      *zap.Logger
}

// NewService creates the exercise service
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		opts:        cfg.Options,
		catalog:     cfg.Catalog,
		catalogPath: cfg.CatalogPath,
		uploader:    cfg.Uploader,
		ledger:      cfg.Ledger,
		registry:    cfg.Registry,
		logger:      cfg.Logger.Named("exercise"),
	}
}

// Options returns the exercise options
func (s *Service) Options() session.Options {
	return s.opts
}

// Prompts returns the prompt catalog. An empty catalog is reported as
// session.ErrEmptyCatalog
func (s *Service) Prompts() ([]string, error) {
	prompts, err := s.catalog.Load(s.catalogPath)
	if err != nil {
		s.logger.Error("prompt catalog unavailable", zap.String("path", s.catalogPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", session.ErrEmptyCatalog, err)
	}
	if len(prompts) == 0 {
		return nil, session.ErrEmptyCatalog
	}
	return prompts, nil
}

// Finalize uploads the machine's session and records a receipt. A ledger
// failure is logged but does not fail the submission since the object is
// already stored
func (s *Service) Finalize(ctx context.Context, m *session.Machine) (*sdk.Receipt, error) {
	record, err := m.Finalize(ctx, s.uploader)
	if err != nil {
		return nil, err
	}

	receipt := &submission.Receipt{
		SessionID:   record.SessionID,
		ObjectKey:   record.ObjectKey(),
		Backend:     s.uploader.Name(),
		Bucket:      s.uploader.Bucket(),
		RoundCount:  len(record.Rounds),
		CompletedAt: record.CompletedAt,
	}
	if err := s.ledger.Record(ctx, receipt); err != nil {
		s.logger.Warn("failed to record submission receipt", zap.String("session_id", record.SessionID), zap.Error(err))
	}

	return toSDKReceipt(receipt), nil
}

// WithBrowser runs fn on the machine bound to a browser cookie, creating it
// on first use
func (s *Service) WithBrowser(token string, fn func(m *session.Machine) error) error {
	return s.registry.With(webPrefix+token, true, fn)
}

// StartSession creates an API session from intake answers and draws its
// first prompt. Nothing is stored when the catalog is unavailable
func (s *Service) StartSession(intake sdk.Intake) (sdk.SessionState, error) {
	prompts, err := s.Prompts()
	if err != nil {
		return sdk.SessionState{}, err
	}

	m := s.newMachine()
	if err := m.SubmitIntake(ToIntakeRecord(intake)); err != nil {
		return sdk.SessionState{}, err
	}
	if err := m.EnsurePrompt(prompts); err != nil {
		return sdk.SessionState{}, err
	}

	snap := m.Snapshot()
	s.registry.Put(apiPrefix+snap.SessionID, m)
	s.logger.Info("session started", zap.String("session_id", snap.SessionID), zap.String("via", "api"))

	return ToSessionState(snap), nil
}

// WithSession runs fn on a running API session
func (s *Service) WithSession(id string, fn func(m *session.Machine) error) error {
	return s.registry.With(apiPrefix+id, false, fn)
}

// FinalizeSession uploads an API session and forgets it on success
func (s *Service) FinalizeSession(ctx context.Context, id string) (*sdk.Receipt, error) {
	var receipt *sdk.Receipt
	err := s.WithSession(id, func(m *session.Machine) error {
		var err error
		receipt, err = s.Finalize(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.registry.Delete(apiPrefix + id)
	return receipt, nil
}

// AbandonSession drops an API session without uploading it
func (s *Service) AbandonSession(id string) error {
	if !s.registry.Delete(apiPrefix + id) {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, id)
	}

	s.logger.Info("session abandoned", zap.String("session_id", id))
	return nil
}

// Submissions returns the latest receipts and the ledger size
func (s *Service) Submissions(ctx context.Context, limit int) (*sdk.ReceiptList, error) {
	receipts, err := s.ledger.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	count, err := s.ledger.Count(ctx)
	if err != nil {
		return nil, err
	}

	list := &sdk.ReceiptList{Receipts: make([]sdk.Receipt, 0, len(receipts)), Count: count}
	for _, receipt := range receipts {
		list.Receipts = append(list.Receipts, *toSDKReceipt(receipt))
	}
	return list, nil
}

// Health reports whether trials can run
func (s *Service) Health() sdk.HealthStatus {
	status := sdk.HealthStatus{
		Status:         "OK",
		Backend:        s.uploader.Name(),
		Bucket:         s.uploader.Bucket(),
		ActiveSessions: s.registry.Len(),
	}

	prompts, err := s.Prompts()
	if err != nil {
		status.Status = "DEGRADED"
		status.CatalogError = err.Error()
	}
	status.CatalogSize = len(prompts)

	return status
}

func (s *Service) newMachine() *session.Machine {
	return session.NewMachine(s.opts)
}

// StatusFor maps service errors to HTTP status codes
func StatusFor(err error) int {
	var verr *session.ValidationError

	switch {
	case errors.As(err, &verr), errors.Is(err, session.ErrEmptyTranscription):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrWrongState), errors.Is(err, session.ErrRoundLimit):
		return http.StatusConflict
	case errors.Is(err, session.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
