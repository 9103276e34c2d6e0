package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"DocketWatch/internal/dedup"
	"DocketWatch/internal/ports"
)

// DefaultTable holds one row per seen key.
const DefaultTable = "seen_entries"

const insertBatchSize = 500

// PostgresStore persists the seen set as rows. Rows are only ever inserted,
// so concurrent runs merge by construction.
type PostgresStore struct {
	db      *sql.DB
	table   string
	builder sq.StatementBuilderType
	logger  *slog.Logger

	mu     sync.Mutex
	loaded *dedup.SeenSet
}

var _ ports.SeenStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB opened with the lib/pq driver.
func NewPostgresStore(db *sql.DB, table string, logger *slog.Logger) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		db:      db,
		table:   pq.QuoteIdentifier(table),
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger.With("component", "seenstore.postgres", "table", table),
	}
}

// EnsureSchema creates the table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		first_seen TIMESTAMPTZ NOT NULL,
		raw        TEXT
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// Load reads every row into a snapshot.
func (s *PostgresStore) Load(ctx context.Context) (dedup.SeenSet, error) {
	query, args, err := s.selectQuery()
	if err != nil {
		return dedup.SeenSet{}, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return dedup.SeenSet{}, fmt.Errorf("query seen: %w", err)
	}

	var marks []dedup.Mark
	for rows.Next() {
		var (
			m   dedup.Mark
			raw sql.NullString
		)
		if err := rows.Scan(&m.Key, &m.FirstSeen, &raw); err != nil {
			_ = rows.Close()
			return dedup.SeenSet{}, fmt.Errorf("scan seen: %w", err)
		}
		if raw.Valid && raw.String != "" {
			m.Raw = []byte(raw.String)
		}
		m.FirstSeen = m.FirstSeen.UTC()
		marks = append(marks, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return dedup.SeenSet{}, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return dedup.SeenSet{}, fmt.Errorf("close rows: %w", closeErr)
	}

	set := dedup.FromMarks(marks)
	s.mu.Lock()
	s.loaded = &set
	s.mu.Unlock()
	return set, nil
}

// Save inserts the keys of next that were not present at Load time, all in
// one transaction. Existing rows are left untouched.
func (s *PostgresStore) Save(ctx context.Context, next dedup.SeenSet) error {
	s.mu.Lock()
	var pending []dedup.Mark
	if s.loaded != nil {
		pending = next.Missing(*s.loaded)
	} else {
		pending = next.Marks()
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(pending); start += insertBatchSize {
		end := min(start+insertBatchSize, len(pending))
		query, args, err := s.insertQuery(pending[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert seen: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.mu.Lock()
	merged := next
	if s.loaded != nil {
		merged = s.loaded.Union(next)
	}
	s.loaded = &merged
	s.mu.Unlock()

	s.logger.Debug("seen set saved", "inserted", len(pending))
	return nil
}

func (s *PostgresStore) selectQuery() (string, []any, error) {
	query, args, err := s.builder.
		Select("key", "first_seen", "raw").
		From(s.table).
		OrderBy("key").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func (s *PostgresStore) insertQuery(marks []dedup.Mark) (string, []any, error) {
	insert := s.builder.
		Insert(s.table).
		Columns("key", "first_seen", "raw").
		Suffix("ON CONFLICT (key) DO NOTHING")

	for _, m := range marks {
		raw, err := dedup.EncodeRecord(m)
		if err != nil {
			return "", nil, fmt.Errorf("encode %s: %w", m.Key, err)
		}
		insert = insert.Values(m.Key, m.FirstSeen.UTC().Truncate(time.Microsecond), string(raw))
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return query, args, nil
}
