package submission

import (
	"time"

	"gorm.io/gorm"
)

// Receipt records that a session record was uploaded. It never holds the
// participant's answers or transcriptions
type Receipt struct {
	SessionID   string    `json:"session_id"`
	ObjectKey   string    `json:"object_key"`
	Backend     string    `json:"backend"`
	Bucket      string    `json:"bucket"`
	RoundCount  int       `json:"round_count"`
	CompletedAt time.Time `json:"completed_at"`
}

// ReceiptModel represents the database model for receipts
type ReceiptModel struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"column:deleted_at;index"`

	SessionID   string    `json:"session_id" gorm:"column:session_id;type:char(36);unique;not null"`
	ObjectKey   string    `json:"object_key" gorm:"column:object_key;not null;size:255"`
	Backend     string    `json:"backend" gorm:"column:backend;size:32"`
	Bucket      string    `json:"bucket" gorm:"column:bucket;size:255"`
	RoundCount  int       `json:"round_count" gorm:"column:round_count"`
	CompletedAt time.Time `json:"completed_at" gorm:"column:completed_at;index"`
}

// TableName sets the table name for GORM
func (ReceiptModel) TableName() string {
	return "submission_receipts"
}

func (m *ReceiptModel) toReceipt() *Receipt {
	return &Receipt{
		SessionID:   m.SessionID,
		ObjectKey:   m.ObjectKey,
		Backend:     m.Backend,
		Bucket:      m.Bucket,
		RoundCount:  m.RoundCount,
		CompletedAt: m.CompletedAt,
	}
}
