package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jonathan/resume-screener/internal/types"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// dialect captures what differs between the database/sql backends.
type dialect struct {
	name        string
	schema      []string
	isDuplicate func(error) bool
}

var (
	sqliteDialect = dialect{name: "sqlite", schema: sqliteSchema, isDuplicate: isSQLiteUniqueViolation}
	mysqlDialect  = dialect{name: "mysql", schema: mysqlSchema, isDuplicate: isMySQLDuplicate}
)

// SQLStore implements Store on database/sql for SQLite and MySQL.
// Both drivers accept "?" placeholders, so queries are shared.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (creating if needed) a SQLite database file.
// The store uses a single connection so writes never contend for the file lock.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	sqlDB, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return newSQLStore(ctx, sqlDB, sqliteDialect)
}

// sqliteDSN enables foreign keys and stores timestamps in a sortable text format.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_time_format=sqlite"
}

// OpenMySQL connects to MySQL using a go-sql-driver DSN (user:pass@tcp(host:3306)/db).
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	normalized, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}
	sqlDB.SetConnMaxLifetime(3 * time.Minute)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	return newSQLStore(ctx, sqlDB, mysqlDialect)
}

// mysqlDSN forces time parsing in UTC so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func newSQLStore(ctx context.Context, sqlDB *sql.DB, d dialect) (*SQLStore, error) {
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", d.name, err)
	}
	return &SQLStore{db: sqlDB, dialect: d, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the underlying database handle
func (s *SQLStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate creates the users and resume_history tables.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", s.dialect.name, err)
		}
	}
	return nil
}

// CheckEmailExists reports whether a user with email exists
func (s *SQLStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, normalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// CreateUser inserts a local user without a password and returns its ID
func (s *SQLStore) CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.insertUser(ctx, id, name, normalizeEmail(email), phone, AuthProviderLocal); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *SQLStore) insertUser(ctx context.Context, id uuid.UUID, name, email, phone, provider string) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, password_hash, password_set, auth_provider, created_at, updated_at)
		 VALUES (?, ?, ?, ?, '', FALSE, ?, ?, ?)`,
		id.String(), name, email, phone, provider, now, now,
	)
	if err != nil {
		if s.dialect.isDuplicate(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpsertOAuthUser returns the user with email, inserting one for provider if missing
func (s *SQLStore) UpsertOAuthUser(ctx context.Context, name, email, provider string) (*User, error) {
	email = normalizeEmail(email)
	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id := uuid.New()
	err = s.insertUser(ctx, id, name, email, "", provider)
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with a concurrent sign-in; the row exists now.
		return s.GetUserByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// GetUser retrieves a user by ID
func (s *SQLStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, nil
	}
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// UpdatePassword stores a new password hash and marks the password as set
func (s *SQLStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, password_set = TRUE, updated_at = ? WHERE id = ?`,
		passwordHash, s.now(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// DeleteUser removes a user and, by cascade, their history
func (s *SQLStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AppendHistory records one screening result
func (s *SQLStore) AppendHistory(ctx context.Context, userID uuid.UUID, domain string, score float64) (*types.HistoryRecord, error) {
	rec := types.HistoryRecord{UserID: userID, Domain: domain, Score: score, CreatedAt: s.now()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO resume_history (user_id, domain, score, created_at) VALUES (?, ?, ?, ?)`,
		userID.String(), domain, score, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read history id: %w", err)
	}
	return &rec, nil
}

// ListHistory returns the user's history, most recent first
func (s *SQLStore) ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, domain, score, created_at
		 FROM resume_history WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID.String(), historyLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []types.HistoryRecord{}
	for rows.Next() {
		var rec types.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Domain, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isMySQLDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
