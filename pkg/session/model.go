package session

import (
	"time"
)

// OperatingSystem is the phone operating system reported at intake
type OperatingSystem string

const (
	Android OperatingSystem = "Android"
	IOS     OperatingSystem = "iOS"
)

// OperatingSystems lists the accepted operating systems in display order
var OperatingSystems = []OperatingSystem{Android, IOS}

// Sex is the participant's sex as reported at intake
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
)

// Sexes lists the accepted values in display order
var Sexes = []Sex{Male, Female}

// OriginStates are the Brazilian federative unit codes accepted as origin state
var OriginStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

const (
	MinAge = 0
	MaxAge = 120
)

// Speed is the speaking pace the participant is asked to use for a prompt
type Speed string

const (
	Paused Speed = "Pausado"
	Normal Speed = "Normal"
	Fast   Speed = "Rápido"
)

// Speeds is the fixed set a speed is drawn from
var Speeds = []Speed{Paused, Normal, Fast}

// IntakeRecord holds the demographic answers from the first screen
type IntakeRecord struct {
	PhoneModel      string          `json:"modelo_celular"`
	OperatingSystem OperatingSystem `json:"sistema_operacional"`
	OSVersion       string          `json:"versao_so"`
	OriginState     string          `json:"estado_origem"`
	Sex             Sex             `json:"sexo"`
	Age             int             `json:"idade"`
}

// TrialRound is one recorded prompt/transcription pair
type TrialRound struct {
	Round             int       `json:"round"`
	PromptText        string    `json:"model_text"`
	UserTranscription string    `json:"user_transcription"`
	SpeechSpeed       Speed     `json:"speech_speed"`
	Timestamp         time.Time `json:"timestamp"`
}

// SessionRecord is the document uploaded once a participant finishes
type SessionRecord struct {
	SessionID   string       `json:"test_id"`
	Intake      IntakeRecord `json:"form_data"`
	Rounds      []TrialRound `json:"transcription_rounds"`
	CompletedAt time.Time    `json:"test_completion_timestamp"`
}

// ObjectKey returns the storage key the record is written under
func (r *SessionRecord) ObjectKey() string {
	return ObjectKey(r.SessionID)
}

// ObjectKey returns the storage key for a session id
func ObjectKey(sessionID string) string {
	return sessionID + ".json"
}
