package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ============================================================
// Upload Journal
// ============================================================

// Upload запись журнала: только метаданные, содержимое файла не хранится
type Upload struct {
	ID            string `json:"id"`
	SessionID     string `json:"session_id"`
	Filename      string `json:"filename"`
	Format        string `json:"format"`
	StructureName string `json:"structure_name"`
	SizeBytes     int64  `json:"size_bytes"`
	Outcome       string `json:"outcome"`
	Message       string `json:"message"`
	Points        int    `json:"points"`
	CreatedAt     string `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, u Upload) (Upload, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO uploads (id, session_id, filename, format, structure_name, size_bytes, outcome, message, points)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, u.ID, u.SessionID, u.Filename, u.Format, u.StructureName, u.SizeBytes, u.Outcome, u.Message, u.Points)
	if err != nil {
		return Upload{}, fmt.Errorf("insert upload: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `SELECT created_at FROM uploads WHERE id = ?`, u.ID)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return u, nil
}

// List записи сессии в порядке загрузки
func (r *Repository) List(ctx context.Context, sessionID string) ([]Upload, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, session_id, filename, format, structure_name, size_bytes, outcome, message, points, created_at
        FROM uploads
        WHERE session_id = ?
        ORDER BY rowid
    `, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Upload{}
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Filename, &u.Format, &u.StructureName, &u.SizeBytes, &u.Outcome, &u.Message, &u.Points, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE session_id = ?`, sessionID)
	return err
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
