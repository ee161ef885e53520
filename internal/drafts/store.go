package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/zapshots/shots-console-api/pkg/env"
)

// ErrNotFound is returned when a draft does not exist for the user.
var ErrNotFound = errors.New("draft not found")

// Draft is a saved campaign in progress, owned by a dashboard user.
type Draft struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Store struct {
	db           *sql.DB
	cacheMu      sync.RWMutex
	listCache    map[string]listCacheEntry
	listCacheTTL time.Duration
}

type listCacheEntry struct {
	drafts    []Draft
	expiresAt time.Time
}

func NewStore(db *sql.DB) *Store {
	ttlSeconds := env.GetEnvIntOrDefault("DRAFT_CACHE_TTL_SECONDS", 15)
	if ttlSeconds < 0 {
		ttlSeconds = 0
	}
	return &Store{
		db:           db,
		listCache:    make(map[string]listCacheEntry),
		listCacheTTL: time.Duration(ttlSeconds) * time.Second,
	}
}

// Open connects to Postgres using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(env.GetEnvIntOrDefault("DATABASE_MAX_OPEN_CONNS", 10))
	db.SetMaxIdleConns(env.GetEnvIntOrDefault("DATABASE_MAX_IDLE_CONNS", 5))
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// InitSchema creates the drafts table when it does not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS console_drafts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			name       TEXT NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_console_drafts_user ON console_drafts (user_id)
	`)
	return err
}

func (s *Store) getListCache(userID string) ([]Draft, bool) {
	if s.listCacheTTL <= 0 {
		return nil, false
	}
	s.cacheMu.RLock()
	entry, ok := s.listCache[userID]
	s.cacheMu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.cacheMu.Lock()
		delete(s.listCache, userID)
		s.cacheMu.Unlock()
		return nil, false
	}
	return entry.drafts, true
}

func (s *Store) setListCache(userID string, drafts []Draft) {
	if s.listCacheTTL <= 0 {
		return
	}
	s.cacheMu.Lock()
	s.listCache[userID] = listCacheEntry{
		drafts:    drafts,
		expiresAt: time.Now().Add(s.listCacheTTL),
	}
	s.cacheMu.Unlock()
}

func (s *Store) invalidateListCache(userID string) {
	if s.listCacheTTL <= 0 {
		return
	}
	s.cacheMu.Lock()
	delete(s.listCache, userID)
	s.cacheMu.Unlock()
}

func (s *Store) List(ctx context.Context, userID string) ([]Draft, error) {
	if cached, ok := s.getListCache(userID); ok {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, payload, created_at, updated_at
		FROM console_drafts
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.setListCache(userID, drafts)
	return drafts, nil
}

func (s *Store) Get(ctx context.Context, userID, id string) (*Draft, error) {
	var d Draft
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, payload, created_at, updated_at
		FROM console_drafts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&d.ID, &d.UserID, &d.Name, &d.Payload, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) Create(ctx context.Context, d *Draft) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO console_drafts (id, user_id, name, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.UserID, d.Name, d.Payload, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return err
	}
	s.invalidateListCache(d.UserID)
	return nil
}

func (s *Store) Update(ctx context.Context, d *Draft) error {
	d.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE console_drafts
		SET name = $1, payload = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, d.Name, d.Payload, d.UpdatedAt, d.ID, d.UserID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateListCache(d.UserID)
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM console_drafts
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.invalidateListCache(userID)
	return nil
}
