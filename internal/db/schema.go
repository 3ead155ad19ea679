package db

// userColumns is the column list every user read selects, in scanUser order.
const userColumns = `id, name, email, phone, password_hash, password_set, auth_provider, created_at, updated_at`

// rowScanner is satisfied by pgx.Row, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.PasswordSet,
		&u.AuthProvider, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		phone         TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		password_set  BOOLEAN NOT NULL DEFAULT FALSE,
		auth_provider TEXT NOT NULL DEFAULT 'local' CHECK (auth_provider IN ('local', 'google')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS resume_history (
		id         BIGSERIAL PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		domain     TEXT NOT NULL,
		score      DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_history_user ON resume_history (user_id, created_at DESC)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		phone         TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		password_set  BOOLEAN NOT NULL DEFAULT 0,
		auth_provider TEXT NOT NULL DEFAULT 'local' CHECK (auth_provider IN ('local', 'google')),
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resume_history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		domain     TEXT NOT NULL,
		score      REAL NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_history_user ON resume_history (user_id, created_at DESC)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36) PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		phone         VARCHAR(64) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL DEFAULT '',
		password_set  BOOLEAN NOT NULL DEFAULT FALSE,
		auth_provider VARCHAR(16) NOT NULL DEFAULT 'local',
		created_at    DATETIME(6) NOT NULL,
		updated_at    DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resume_history (
		id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id    CHAR(36) NOT NULL,
		domain     VARCHAR(255) NOT NULL,
		score      DOUBLE NOT NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_resume_history_user (user_id, created_at),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
}
