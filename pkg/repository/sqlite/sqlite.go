package sqlite

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/interfaces"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type promptRow struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Text      string
	Order     int       `gorm:"column:sort_order;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (promptRow) TableName() string { return "prompts" }

type responseRow struct {
	ID          string `gorm:"primaryKey"`
	PromptID    string `gorm:"not null;uniqueIndex:idx_responses_prompt_user,priority:1"`
	UserID      string `gorm:"not null;uniqueIndex:idx_responses_prompt_user,priority:2"`
	Content     string
	IsSubmitted bool
	SubmittedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (responseRow) TableName() string { return "responses" }

type acknowledgmentRow struct {
	ID             string    `gorm:"primaryKey"`
	ResponseID     string    `gorm:"not null;uniqueIndex:idx_acks_response_user,priority:1"`
	UserID         string    `gorm:"not null;uniqueIndex:idx_acks_response_user,priority:2"`
	AcknowledgedAt time.Time `gorm:"not null"`
}

func (acknowledgmentRow) TableName() string { return "acknowledgments" }

type suggestionRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Content   string
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
}

func (suggestionRow) TableName() string { return "suggestions" }

type tokenRow struct {
	ID        string `gorm:"primaryKey"`
	Secret    string
	Sub       string
	Email     string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (tokenRow) TableName() string { return "tokens" }

// SQLite is a single-file repository for local runs. ":memory:" gives an
// ephemeral database.
type SQLite struct {
	db             *gorm.DB
	prompt         *promptRepository
	response       *responseRepository
	acknowledgment *acknowledgmentRepository
	suggestion     *suggestionRepository
}

var _ interfaces.Repository = &SQLite{}

func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sqlite handle")
	}
	// Every connection to ":memory:" is a separate database, and SQLite
	// allows one writer at a time anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to ping sqlite database", goerr.V("path", path))
	}

	return &SQLite{
		db:             db,
		prompt:         &promptRepository{db: db},
		response:       &responseRepository{db: db},
		acknowledgment: &acknowledgmentRepository{db: db},
		suggestion:     &suggestionRepository{db: db},
	}, nil
}

// Migrate creates or updates tables and indexes
func (s *SQLite) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&promptRow{},
		&responseRow{},
		&acknowledgmentRow{},
		&suggestionRow{},
		&tokenRow{},
	)
	if err != nil {
		return goerr.Wrap(err, "failed to migrate sqlite schema")
	}
	return nil
}

func (s *SQLite) Prompt() interfaces.PromptRepository {
	return s.prompt
}

func (s *SQLite) Response() interfaces.ResponseRepository {
	return s.response
}

func (s *SQLite) Acknowledgment() interfaces.AcknowledgmentRepository {
	return s.acknowledgment
}

func (s *SQLite) Suggestion() interfaces.SuggestionRepository {
	return s.suggestion
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get sqlite handle")
	}
	return sqlDB.Close()
}
