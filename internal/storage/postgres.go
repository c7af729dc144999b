package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EncryptEx/ichack26/internal"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	token          TEXT UNIQUE,
	name           TEXT NOT NULL,
	avatar         TEXT NOT NULL DEFAULT '',
	streak         INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
	longest_streak INTEGER NOT NULL DEFAULT 0 CHECK (longest_streak >= 0)
);
CREATE TABLE IF NOT EXISTS dreams (
	id       TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL REFERENCES users(id),
	username TEXT NOT NULL,
	title    TEXT NOT NULL,
	content  TEXT NOT NULL,
	mood     TEXT,
	date     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS dreams_date_idx ON dreams (date DESC);
CREATE TABLE IF NOT EXISTS comments (
	id        TEXT PRIMARY KEY,
	record_id TEXT NOT NULL,
	user_id   TEXT NOT NULL REFERENCES users(id),
	username  TEXT NOT NULL,
	text      TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_record_idx ON comments (record_id, timestamp);
CREATE TABLE IF NOT EXISTS time_overrides (
	user_id    TEXT NOT NULL REFERENCES users(id),
	date       TEXT NOT NULL,
	bed_time   TEXT NOT NULL,
	wake_time  TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, date)
);`

type PostgresStorage struct {
	pool       *pgxpool.Pool
	rosterPath string
	logger     internal.Logger
}

// NewPostgresStorage connects, migrates and seeds the roster at rosterPath
// (the built-in roster when empty) into an empty users table.
func NewPostgresStorage(ctx context.Context, dsn, rosterPath string, logger internal.Logger) (*PostgresStorage, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse postgres dsn: %w", err)
	}
	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}

	p := &PostgresStorage{pool: pool, rosterPath: rosterPath, logger: logger}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Migrate creates the schema and seeds the default roster into an empty users table.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		p.logger.Errorf("migration failed: %v", err)
		return fmt.Errorf("storage: migrate: %w", err)
	}

	var count int
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("storage: count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	roster, err := LoadRoster(p.rosterPath)
	if err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, u := range roster {
		batch.Queue(`INSERT INTO users (id, token, name, avatar, streak, longest_streak) VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Token, u.Name, u.Avatar, u.Streak, u.LongestStreak)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("storage: seed users: %w", err)
	}
	p.logger.Infof("storage: seeded %d users", len(roster))
	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return err
}

// --- UserRepository ---
const userColumns = `id, COALESCE(token, ''), name, avatar, streak, longest_streak`

func scanUser(row pgx.Row) (*internal.User, error) {
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name, &u.Avatar, &u.Streak, &u.LongestStreak); err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		p.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []internal.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			p.logger.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return u, nil
}

func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE token = $1`, token))
	if err != nil {
		return nil, notFound(err, "token")
	}
	return u, nil
}

func (p *PostgresStorage) RenameUser(ctx context.Context, id, name string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `UPDATE users SET name = $2 WHERE id = $1 RETURNING `+userColumns, id, name))
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return u, nil
}

func (p *PostgresStorage) EnsureUser(ctx context.Context, u *internal.User) (*internal.User, error) {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, token, name, avatar, streak, longest_streak) VALUES ($1, NULL, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`, u.ID, u.Name, u.Avatar, u.Streak, u.LongestStreak)
	if err != nil {
		p.logger.Errorf("failed to ensure user %s: %v", u.ID, err)
		return nil, err
	}
	return p.GetUser(ctx, u.ID)
}

// --- DreamRepository ---
func (p *PostgresStorage) SaveDream(ctx context.Context, d *internal.Dream) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO dreams (id, user_id, username, title, content, mood, date) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.UserID, d.Username, d.Title, d.Content, d.Mood, d.Date)
	if err != nil {
		p.logger.Errorf("failed to insert dream: %v", err)
		return err
	}
	return nil
}

const dreamColumns = `id, user_id, username, title, content, mood, date`

func scanDream(row pgx.Row) (*internal.Dream, error) {
	var d internal.Dream
	if err := row.Scan(&d.ID, &d.UserID, &d.Username, &d.Title, &d.Content, &d.Mood, &d.Date); err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *PostgresStorage) GetDream(ctx context.Context, id string) (*internal.Dream, error) {
	d, err := scanDream(p.pool.QueryRow(ctx, `SELECT `+dreamColumns+` FROM dreams WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "dream "+id)
	}
	return d, nil
}

func (p *PostgresStorage) ListDreams(ctx context.Context, userID string, limit int) ([]internal.Dream, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := p.pool.Query(ctx, `SELECT `+dreamColumns+` FROM dreams
		WHERE ($1 = '' OR user_id = $1) ORDER BY date DESC LIMIT $2`, userID, lim)
	if err != nil {
		p.logger.Errorf("failed to query dreams: %v", err)
		return nil, err
	}
	defer rows.Close()

	dreams := []internal.Dream{}
	for rows.Next() {
		d, err := scanDream(rows)
		if err != nil {
			p.logger.Errorf("failed to scan dream: %v", err)
			return nil, err
		}
		dreams = append(dreams, *d)
	}
	return dreams, rows.Err()
}

// --- CommentRepository ---
func (p *PostgresStorage) AddComment(ctx context.Context, c *internal.Comment) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO comments (id, record_id, user_id, username, text, timestamp) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.RecordID, c.UserID, c.Username, c.Text, c.Timestamp)
	if err != nil {
		p.logger.Errorf("failed to insert comment: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListComments(ctx context.Context, recordID string) ([]internal.Comment, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, record_id, user_id, username, text, timestamp FROM comments WHERE record_id = $1 ORDER BY timestamp`, recordID)
	if err != nil {
		p.logger.Errorf("failed to query comments: %v", err)
		return nil, err
	}
	defer rows.Close()

	comments := []internal.Comment{}
	for rows.Next() {
		var c internal.Comment
		if err := rows.Scan(&c.ID, &c.RecordID, &c.UserID, &c.Username, &c.Text, &c.Timestamp); err != nil {
			p.logger.Errorf("failed to scan comment: %v", err)
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// --- OverrideRepository ---
func (p *PostgresStorage) SetOverride(ctx context.Context, o *internal.TimeOverride) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO time_overrides (user_id, date, bed_time, wake_time, updated_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET bed_time = EXCLUDED.bed_time, wake_time = EXCLUDED.wake_time, updated_at = EXCLUDED.updated_at`,
		o.UserID, o.Date, o.BedTime, o.WakeTime, o.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert override: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetOverride(ctx context.Context, userID, date string) (*internal.TimeOverride, error) {
	var o internal.TimeOverride
	err := p.pool.QueryRow(ctx, `SELECT user_id, date, bed_time, wake_time, updated_at FROM time_overrides WHERE user_id = $1 AND date = $2`, userID, date).
		Scan(&o.UserID, &o.Date, &o.BedTime, &o.WakeTime, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		p.logger.Errorf("failed to query override: %v", err)
		return nil, err
	}
	return &o, nil
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
