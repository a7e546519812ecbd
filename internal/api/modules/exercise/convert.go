package exercise

import (
	"github.com/ethanbaker/parlavoice/internal/stores/submission"
	"github.com/ethanbaker/parlavoice/pkg/sdk"
	"github.com/ethanbaker/parlavoice/pkg/session"
)

// ToIntakeRecord converts bound intake answers into the session model. A
// missing age becomes -1 so validation rejects it
func ToIntakeRecord(in sdk.Intake) session.IntakeRecord {
	age := -1
	if in.Age != nil {
		age = *in.Age
	}

	return session.IntakeRecord{
		PhoneModel:      in.PhoneModel,
		OperatingSystem: session.OperatingSystem(in.OperatingSystem),
		OSVersion:       in.OSVersion,
		OriginState:     in.OriginState,
		Sex:             session.Sex(in.Sex),
		Age:             age,
	}
}

// ToSessionState converts a machine snapshot for API responses
func ToSessionState(snap session.Snapshot) sdk.SessionState {
	age := snap.Intake.Age

	state := sdk.SessionState{
		ID:   snap.SessionID,
		Page: string(snap.Page),
		FormData: sdk.Intake{
			PhoneModel:      snap.Intake.PhoneModel,
			OperatingSystem: string(snap.Intake.OperatingSystem),
			OSVersion:       snap.Intake.OSVersion,
			OriginState:     snap.Intake.OriginState,
			Sex:             string(snap.Intake.Sex),
			Age:             &age,
		},
		Prompt:     snap.Prompt,
		Speed:      string(snap.Speed),
		SpeedLabel: snap.SpeedLabel,
		Rounds:     make([]sdk.Round, 0, len(snap.Rounds)),
	}

	for _, round := range snap.Rounds {
		state.Rounds = append(state.Rounds, sdk.Round{
			Round:             round.Round,
			ModelText:         round.PromptText,
			UserTranscription: round.UserTranscription,
			SpeechSpeed:       string(round.SpeechSpeed),
			Timestamp:         round.Timestamp,
		})
	}

	return state
}

func toSDKReceipt(r *submission.Receipt) *sdk.Receipt {
	return &sdk.Receipt{
		SessionID:   r.SessionID,
		ObjectKey:   r.ObjectKey,
		Backend:     r.Backend,
		Bucket:      r.Bucket,
		RoundCount:  r.RoundCount,
		CompletedAt: r.CompletedAt,
	}
}
