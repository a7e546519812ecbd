package submission

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySqlStore handles receipt persistence using GORM
type MySqlStore struct {
	db *gorm.DB
}

// NewMySqlStore opens the database and migrates the receipts table
func NewMySqlStore(dsn string) (*MySqlStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return newStore(db)
}

func newStore(db *gorm.DB) (*MySqlStore, error) {
	if err := db.AutoMigrate(&ReceiptModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &MySqlStore{db: db}, nil
}

// Record stores a receipt
func (s *MySqlStore) Record(ctx context.Context, receipt *Receipt) error {
	if err := validate(receipt); err != nil {
		return err
	}

	model := &ReceiptModel{
		SessionID:   receipt.SessionID,
		ObjectKey:   receipt.ObjectKey,
		Backend:     receipt.Backend,
		Bucket:      receipt.Bucket,
		RoundCount:  receipt.RoundCount,
		CompletedAt: receipt.CompletedAt,
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicate, receipt.SessionID)
		}
		return fmt.Errorf("failed to save receipt: %w", err)
	}

	return nil
}

// Get retrieves the receipt of a session
func (s *MySqlStore) Get(ctx context.Context, sessionID string) (*Receipt, error) {
	var model ReceiptModel
	result := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get receipt: %w", result.Error)
	}

	return model.toReceipt(), nil
}

// List returns the most recent receipts first
func (s *MySqlStore) List(ctx context.Context, limit int) ([]*Receipt, error) {
	var models []ReceiptModel
	query := s.db.WithContext(ctx).Order("completed_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	receipts := make([]*Receipt, len(models))
	for i := range models {
		receipts[i] = models[i].toReceipt()
	}
	return receipts, nil
}

// Count returns the number of stored receipts
func (s *MySqlStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ReceiptModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *MySqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
