package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"greetcard/internal/debug"
	"greetcard/internal/domain"
	appErrors "greetcard/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps messages and photos in a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and migrates it
// to the latest schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "sqlite database path is required", nil)
	}
	//nolint:gosec // G301: Database directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, storageError("create database directory", err)
	}

	dsn := buildSQLiteDSN(trimmed)
	if err := migrateSQLite(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storageError("open sqlite db", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storageError("ping sqlite db", err)
	}
	debug.Logf("store: sqlite database ready at %s", trimmed)
	return &SQLiteStore{db: db, path: trimmed, now: utcNow}, nil
}

// buildSQLiteDSN creates a read-write WAL DSN with foreign keys enforced.
func buildSQLiteDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

// migrateSQLite applies the embedded migrations on a dedicated connection;
// closing the migrator closes that connection.
func migrateSQLite(dsn string) error {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return storageError("open sqlite db for migrations", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return storageError("init migration driver", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return storageError("load migrations", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		_ = driver.Close()
		return storageError("init migrator", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return storageError("apply migrations", err)
	}
	return nil
}

// Path returns the database file backing the store.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	in, err := prepareMessage(in)
	if err != nil {
		return domain.Message{}, err
	}
	id, err := NewMessageID()
	if err != nil {
		return domain.Message{}, storageError("generate message id", err)
	}
	created := s.now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_messages (id, message, recipient_name, created_at) VALUES (?, ?, ?, ?)`,
		id, in.Text, nullableString(in.RecipientName), formatTime(created),
	)
	if err != nil {
		return domain.Message{}, storageError("insert message", err)
	}
	return domain.Message{
		ID:            id,
		Text:          in.Text,
		RecipientName: in.RecipientName,
		CreatedAt:     created,
	}, nil
}

func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	id = strings.TrimSpace(id)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, message, COALESCE(recipient_name, ''), created_at FROM custom_messages WHERE id = ?`, id)

	var (
		msg     domain.Message
		created string
	)
	if err := row.Scan(&msg.ID, &msg.Text, &msg.RecipientName, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, notFoundError("message", id)
		}
		return domain.Message{}, storageError("query message", err)
	}
	ts, err := parseTime(created)
	if err != nil {
		return domain.Message{}, storageError("parse message timestamp", err)
	}
	msg.CreatedAt = ts
	return msg, nil
}

func (s *SQLiteStore) UpdateMessage(ctx context.Context, id string, in domain.MessageInput) (domain.Message, error) {
	in, err := prepareMessage(in)
	if err != nil {
		return domain.Message{}, err
	}
	id = strings.TrimSpace(id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE custom_messages SET message = ?, recipient_name = ? WHERE id = ?`,
		in.Text, nullableString(in.RecipientName), id,
	)
	if err != nil {
		return domain.Message{}, storageError("update message", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Message{}, storageError("update message", err)
	}
	if affected == 0 {
		return domain.Message{}, notFoundError("message", id)
	}
	return s.GetMessage(ctx, id)
}

func (s *SQLiteStore) AddPhoto(ctx context.Context, in domain.PhotoInput) (domain.Photo, error) {
	in, err := preparePhoto(in)
	if err != nil {
		return domain.Photo{}, err
	}
	if _, err := s.GetMessage(ctx, in.MessageID); err != nil {
		return domain.Photo{}, err
	}
	photo := domain.Photo{
		ID:         NewPhotoID(),
		MessageID:  in.MessageID,
		URL:        in.URL,
		Caption:    in.Caption,
		UploadedAt: s.now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO photos (id, message_id, url, caption, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		photo.ID, photo.MessageID, photo.URL, nullableString(photo.Caption), formatTime(photo.UploadedAt),
	)
	if err != nil {
		return domain.Photo{}, storageError("insert photo", err)
	}
	return photo, nil
}

func (s *SQLiteStore) ListPhotos(ctx context.Context, messageID string) ([]domain.Photo, error) {
	query := `SELECT id, message_id, url, COALESCE(caption, ''), uploaded_at FROM photos`
	var args []any
	if trimmed := strings.TrimSpace(messageID); trimmed != "" {
		query += ` WHERE message_id = ?`
		args = append(args, trimmed)
	}
	query += ` ORDER BY uploaded_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("query photos", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	photos := []domain.Photo{}
	for rows.Next() {
		var (
			p        domain.Photo
			uploaded string
		)
		if err := rows.Scan(&p.ID, &p.MessageID, &p.URL, &p.Caption, &uploaded); err != nil {
			return nil, storageError("scan photo", err)
		}
		ts, err := parseTime(uploaded)
		if err != nil {
			return nil, storageError("parse photo timestamp", err)
		}
		p.UploadedAt = ts
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate photos", err)
	}
	return photos, nil
}

func (s *SQLiteStore) DeletePhoto(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return storageError("delete photo", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError("delete photo", err)
	}
	if affected == 0 {
		return notFoundError("photo", id)
	}
	return nil
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", raw, err)
	}
	return ts.UTC(), nil
}
