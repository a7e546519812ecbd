// Package submission keeps a ledger of uploaded sessions
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethanbaker/parlavoice/pkg/utils"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("receipt not found")
	ErrDuplicate = errors.New("receipt already recorded")
)

// Store persists upload receipts
type Store interface {
	Record(ctx context.Context, receipt *Receipt) error
	Get(ctx context.Context, sessionID string) (*Receipt, error)
	List(ctx context.Context, limit int) ([]*Receipt, error)
	Count(ctx context.Context) (int64, error)
}

func validate(receipt *Receipt) error {
	if receipt.SessionID == "" {
		return fmt.Errorf("session_id cannot be empty")
	}
	if receipt.ObjectKey == "" {
		return fmt.Errorf("object_key cannot be empty")
	}
	return nil
}

// NewFromConfig opens the MySQL ledger when MYSQL_DATABASE is set and falls
// back to an in-memory ledger otherwise
func NewFromConfig(cfg *utils.Config, logger *zap.Logger) (Store, error) {
	dbConfig := mysql.Config{
		User:                 cfg.Get("MYSQL_USER"),
		Passwd:               cfg.Get("MYSQL_PASSWORD"),
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "127.0.0.1"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
		DBName:               cfg.Get("MYSQL_DATABASE"),
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	if dbConfig.DBName == "" {
		logger.Warn("MYSQL_DATABASE not set, using in-memory submission ledger (receipts will not persist across restarts)")
		return NewInMemoryStore(), nil
	}

	return NewMySqlStore(dbConfig.FormatDSN())
}
