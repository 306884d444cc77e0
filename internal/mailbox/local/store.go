// Package local implements a mailbox backed by a sqlite file. Drafts live in
// the database; sending hands the message to a Sender and records it in a
// message log that ListRecent reads back.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sant0-9/quill/internal/mailbox"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrAlreadySent   = errors.New("draft already sent")
)

const snippetLen = 120

type Store struct {
	db     *sql.DB
	from   string
	sender Sender
	mu     sync.Mutex
	now    func() time.Time
}

// Open creates or opens the database at path. The parent directory is
// created if it doesn't exist.
func Open(path, from string, sender Sender) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, from: from, sender: sender, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		sent_message_id TEXT
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		thread_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		sent_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_sent_at ON messages(sent_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Name() string {
	return "local/" + s.sender.Name()
}

func (s *Store) ListRecent(ctx context.Context, opts mailbox.ListOptions) ([]mailbox.Header, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, thread_id, sender, subject, body, sent_at FROM messages WHERE 1=1`
	var args []any
	if opts.Days > 0 {
		query += ` AND sent_at >= ?`
		args = append(args, s.now().AddDate(0, 0, -opts.Days).UnixNano())
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		query += ` AND (subject LIKE ? OR body LIKE ? OR sender LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY sent_at DESC LIMIT ?`
	args = append(args, limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mailbox.Wrap(s.Name(), "list", err)
	}
	defer rows.Close()

	var headers []mailbox.Header
	for rows.Next() {
		var h mailbox.Header
		var body string
		var sentAt int64
		if err := rows.Scan(&h.ID, &h.ThreadID, &h.From, &h.Subject, &body, &sentAt); err != nil {
			return nil, mailbox.Wrap(s.Name(), "list", err)
		}
		h.Date = time.Unix(0, sentAt).Format(time.RFC1123Z)
		h.Snippet = snippet(body)
		headers = append(headers, h)
	}
	return headers, mailbox.Wrap(s.Name(), "list", rows.Err())
}

func (s *Store) CreateDraft(ctx context.Context, msg mailbox.Message) (string, error) {
	id := uuid.NewString()
	now := s.now().UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (id, recipient, subject, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, msg.To, msg.Subject, msg.Body, now, now)
	if err != nil {
		return "", mailbox.Wrap(s.Name(), "create draft", err)
	}
	return id, nil
}

func (s *Store) UpdateDraft(ctx context.Context, id string, msg mailbox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, sent, err := s.loadDraft(ctx, id); err != nil {
		return mailbox.Wrap(s.Name(), "update draft", err)
	} else if sent != "" {
		return mailbox.Wrap(s.Name(), "update draft", ErrAlreadySent)
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE drafts SET recipient = ?, subject = ?, body = ?, updated_at = ? WHERE id = ?`,
		msg.To, msg.Subject, msg.Body, s.now().UnixNano(), id)
	return mailbox.Wrap(s.Name(), "update draft", err)
}

func (s *Store) SendDraft(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, sent, err := s.loadDraft(ctx, id)
	if err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}
	if sent != "" {
		return "", mailbox.Wrap(s.Name(), "send draft", ErrAlreadySent)
	}

	messageID, err := s.sender.Send(ctx, s.from, msg)
	if err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}
	if messageID == "" {
		messageID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE drafts SET sent_message_id = ? WHERE id = ?`, messageID, id); err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, thread_id, sender, recipient, subject, body, sent_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		messageID, id, s.from, msg.To, msg.Subject, msg.Body, s.now().UnixNano()); err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}
	if err := tx.Commit(); err != nil {
		return "", mailbox.Wrap(s.Name(), "send draft", err)
	}

	return messageID, nil
}

func (s *Store) loadDraft(ctx context.Context, id string) (mailbox.Message, string, error) {
	var msg mailbox.Message
	var sent sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT recipient, subject, body, sent_message_id FROM drafts WHERE id = ?`, id).
		Scan(&msg.To, &msg.Subject, &msg.Body, &sent)
	if errors.Is(err, sql.ErrNoRows) {
		return msg, "", ErrDraftNotFound
	}
	if err != nil {
		return msg, "", err
	}
	return msg, sent.String, nil
}

func snippet(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(s) <= snippetLen {
		return s
	}
	r := []rune(s)
	return string(r[:snippetLen]) + "..."
}
