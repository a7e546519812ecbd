package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Page is the screen a participant is currently on
type Page string

const (
	PageIntake Page = "intake"
	PageTrial  Page = "trial"
)

var (
	ErrWrongState         = errors.New("action not allowed on the current page")
	ErrEmptyTranscription = errors.New("transcription is empty")
	ErrEmptyCatalog       = errors.New("prompt catalog is empty")
	ErrRoundLimit         = errors.New("round limit reached")
)

// Uploader persists a finished session record
type Uploader interface {
	Upload(ctx context.Context, record *SessionRecord) error
}

// Machine is the state of one participant's run through the exercise. It is
// not safe for concurrent use; callers serialize access per participant
type Machine struct {
	opts  Options
	rng   *rand.Rand
	now   func() time.Time
	newID func() uuid.UUID

	page   Page
	id     uuid.UUID
	intake IntakeRecord
	rounds []TrialRound

	// Current draw
	prompt string
	speed  Speed
	drawn  bool
	draws  int
}

// MachineOption customizes a Machine
type MachineOption func(*Machine)

// WithRand sets the random source used for prompt and speed draws
func WithRand(r *rand.Rand) MachineOption {
	return func(m *Machine) { m.rng = r }
}

// WithClock sets the clock used for round and completion timestamps
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator sets the session id generator
func WithIDGenerator(newID func() uuid.UUID) MachineOption {
	return func(m *Machine) { m.newID = newID }
}

// NewMachine creates a machine on the intake page
func NewMachine(opts Options, options ...MachineOption) *Machine {
	m := &Machine{
		opts:  opts,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:   time.Now,
		newID: uuid.New,
		page:  PageIntake,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// Page returns the current page
func (m *Machine) Page() Page {
	return m.page
}

// SubmitIntake captures the intake answers, starts a new session and moves to
// the trial page
func (m *Machine) SubmitIntake(record IntakeRecord) error {
	if m.page != PageIntake {
		return fmt.Errorf("%w: intake already submitted", ErrWrongState)
	}

	if err := record.Validate(); err != nil {
		return err
	}

	m.intake = record
	m.id = m.newID()
	m.rounds = []TrialRound{}
	m.page = PageTrial

	return nil
}

// EnsurePrompt draws the first prompt when entering the trial page. Later
// calls keep the prompt on screen
func (m *Machine) EnsurePrompt(catalog []string) error {
	if m.page != PageTrial {
		return fmt.Errorf("%w: trial not started", ErrWrongState)
	}
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}

	if !m.drawn {
		m.draw(catalog)
	}
	return nil
}

// Advance records the transcription for the prompt on screen and draws the
// next prompt and speed. Nothing changes when an error is returned
func (m *Machine) Advance(catalog []string, transcription string) error {
	if m.page != PageTrial {
		return fmt.Errorf("%w: trial not started", ErrWrongState)
	}
	if !m.drawn {
		return fmt.Errorf("%w: no prompt has been drawn", ErrWrongState)
	}
	if strings.TrimSpace(transcription) == "" {
		return ErrEmptyTranscription
	}
	if m.opts.MaxRounds > 0 && len(m.rounds) >= m.opts.MaxRounds {
		return fmt.Errorf("%w: %d rounds", ErrRoundLimit, m.opts.MaxRounds)
	}
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}

	m.rounds = append(m.rounds, TrialRound{
		Round:             len(m.rounds) + 1,
		PromptText:        m.prompt,
		UserTranscription: transcription,
		SpeechSpeed:       m.speed,
		Timestamp:         m.now(),
	})

	m.draw(catalog)
	return nil
}

// Record assembles the session record as of now
func (m *Machine) Record() (*SessionRecord, error) {
	if m.page != PageTrial {
		return nil, fmt.Errorf("%w: trial not started", ErrWrongState)
	}

	rounds := make([]TrialRound, len(m.rounds))
	copy(rounds, m.rounds)

	return &SessionRecord{
		SessionID:   m.id.String(),
		Intake:      m.intake,
		Rounds:      rounds,
		CompletedAt: m.now(),
	}, nil
}

// Finalize uploads the session record. On success the machine is reset to
// the intake page; on failure all state is kept so the upload can be retried
func (m *Machine) Finalize(ctx context.Context, uploader Uploader) (*SessionRecord, error) {
	record, err := m.Record()
	if err != nil {
		return nil, err
	}

	if err := uploader.Upload(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to upload session %s: %w", record.SessionID, err)
	}

	m.Reset()
	return record, nil
}

// Reset discards the session and returns to the intake page
func (m *Machine) Reset() {
	m.page = PageIntake
	m.id = uuid.Nil
	m.intake = IntakeRecord{}
	m.rounds = nil
	m.prompt = ""
	m.speed = ""
	m.drawn = false
	m.draws = 0
}

// draw picks a prompt and a speed independently, with replacement
func (m *Machine) draw(catalog []string) {
	m.prompt = catalog[m.rng.IntN(len(catalog))]
	m.speed = Speeds[m.rng.IntN(len(Speeds))]
	m.drawn = true
	m.draws++
}

// Snapshot is a read-only copy of the machine state used for rendering
type Snapshot struct {
	Page       Page
	SessionID  string
	Intake     IntakeRecord
	Rounds     []TrialRound
	Prompt     string
	Speed      Speed
	SpeedLabel string
	Draws      int
}

// Snapshot copies the current state
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		Page:   m.page,
		Intake: m.intake,
		Rounds: make([]TrialRound, len(m.rounds)),
		Prompt: m.prompt,
		Speed:  m.speed,
		Draws:  m.draws,
	}
	copy(snap.Rounds, m.rounds)

	if m.id != uuid.Nil {
		snap.SessionID = m.id.String()
	}
	if m.drawn {
		snap.SpeedLabel = m.opts.Label(m.speed)
	}

	return snap
}
