package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/mhr-assist/internal/model"
)

// MemoryDSN opens a private in-memory database that disappears on Close.
const MemoryDSN = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens a conversation log. Use MemoryDSN for a log that lives
// only as long as the process.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Every new connection to :memory: is a new, empty database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_role ON messages(role, seq DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, p AppendParams) (*model.Message, error) {
	if !model.ValidRoles[p.Role] {
		return nil, fmt.Errorf("invalid role %q", p.Role)
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:        s.newID(now),
		Role:      p.Role,
		Content:   p.Content,
		Timestamp: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM messages ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) Last(ctx context.Context, role model.Role) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, content, created_at FROM messages
		 WHERE role = ? ORDER BY seq DESC LIMIT 1`, string(role))
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(sc scanner) (model.Message, error) {
	var m model.Message
	var role, createdAt string
	if err := sc.Scan(&m.ID, &role, &m.Content, &createdAt); err != nil {
		return m, err
	}
	m.Role = model.Role(strings.TrimSpace(role))
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return m, fmt.Errorf("parse created_at: %w", err)
	}
	m.Timestamp = t
	return m, nil
}
