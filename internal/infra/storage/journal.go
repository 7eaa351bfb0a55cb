// Package storage keeps an optional local journal of submitted transaction
// plans and their outcomes. It is an audit trail only: nothing in the client
// reads it back to make decisions, so registries and caches stay
// process-local.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"deepbook_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PlanRecord is one journaled submission.
type PlanRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Manager   string    `gorm:"index" json:"manager"`
	Kind      string    `json:"kind"` // e.g. "deposit", "place_limit_order"
	Digest    string    `gorm:"index" json:"digest"`
	Steps     int       `json:"steps"`
	Success   bool      `json:"success"`
	Failure   string    `json:"failure"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal is the SQLite-backed plan journal.
type Journal struct {
	db *gorm.DB
}

// NewJournal opens (or creates) the journal database. An empty path resolves
// to the OS user config directory.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		resolved, err := defaultJournalPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve journal path: %w", err)
		}
		path = resolved
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.AutoMigrate(&PlanRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Journal{db: db}, nil
}

func defaultJournalPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "DeepbookGo", "data", "journal.db"), nil
}

// Record appends one row for a submitted plan and its outcome.
func (j *Journal) Record(manager, kind string, plan *domain.TransactionPlan, outcome *domain.TransactionOutcome, submitErr error) error {
	rec := PlanRecord{
		Manager: manager,
		Kind:    kind,
		Steps:   len(plan.Steps),
	}
	if outcome != nil {
		rec.Digest = outcome.Digest
		rec.Success = outcome.Success
		rec.Failure = outcome.Failure
	}
	if submitErr != nil {
		rec.Success = false
		rec.Failure = submitErr.Error()
	}
	return j.db.Create(&rec).Error
}

// RecentByManager returns the newest records for a manager.
func (j *Journal) RecentByManager(manager string, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []PlanRecord
	err := j.db.Where("manager = ?", manager).
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
