package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresConfig configures the database-backed record sink.
type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// ConversationRecord is the row shape shared by every record kind; the
// domain snapshot travels as a JSON payload so new agent variants need no
// schema change.
type ConversationRecord struct {
	bun.BaseModel `bun:"table:conversation_records,alias:cr"`

	ID        int64           `bun:"id,pk,autoincrement"`
	Kind      string          `bun:"kind,notnull"`
	Payload   json.RawMessage `bun:"payload,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// NewPostgresDB opens a bun handle over pgdriver.
func NewPostgresDB(cfg PostgresConfig) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	return bun.NewDB(sqldb, pgdialect.New())
}

// EnsureRecordTable creates the record table if it does not exist yet.
func EnsureRecordTable(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*ConversationRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ensure record table: %w", err)
	}
	return nil
}

// PostgresSink stores records of one kind in the shared table. It satisfies
// the same single-writer contract as the file sinks: a per-process mutex
// keeps appends from this process serialized.
type PostgresSink[R any] struct {
	db   *bun.DB
	kind string
	mu   sync.Mutex
}

func NewPostgresSink[R any](db *bun.DB, kind string) *PostgresSink[R] {
	return &PostgresSink[R]{db: db, kind: kind}
}

func (s *PostgresSink[R]) Append(ctx context.Context, rec R) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", s.kind, err)
	}
	row := &ConversationRecord{Kind: s.kind, Payload: payload, CreatedAt: time.Now().UTC()}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert %s record: %w", s.kind, err)
	}
	return nil
}

func (s *PostgresSink[R]) LoadAll(ctx context.Context) ([]R, error) {
	var rows []ConversationRecord
	err := s.db.NewSelect().
		Model(&rows).
		Where("kind = ?", s.kind).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select %s records: %w", s.kind, err)
	}

	records := make([]R, 0, len(rows))
	for _, row := range rows {
		var rec R
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			log.Error().Err(err).Int64("id", row.ID).Str("kind", s.kind).
				Msg("skipping undecodable record row")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
