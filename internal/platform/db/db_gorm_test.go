package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestBuildDSN はドライバごとのDSN文字列を検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "postgres",
			cfg:  Config{Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p", Name: "stocks", SSLMode: "require"},
			want: "host=db port=5433 user=u password=p dbname=stocks sslmode=require TimeZone=UTC",
		},
		{
			name: "postgres defaults",
			cfg:  Config{Driver: DriverPostgres, Host: "localhost", User: "u", Password: "p", Name: "stocks"},
			want: "host=localhost port=5432 user=u password=p dbname=stocks sslmode=disable TimeZone=UTC",
		},
		{
			name: "sqlite path",
			cfg:  Config{Driver: DriverSQLite, Path: "/tmp/a.db"},
			want: "/tmp/a.db",
		},
		{
			name: "sqlite default path",
			cfg:  Config{Driver: DriverSQLite},
			want: "data/stock_analysis.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, BuildDSN(tt.cfg))
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, attemptCount)
}

// TestOpen_SQLiteWithMigrations はSQLiteファイルを作成しテーブルをマイグレーションすることを検証します。
func TestOpen_SQLiteWithMigrations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := Open(Config{Driver: DriverSQLite, Path: path, RunMigrations: true})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("observations"))
	assert.True(t, db.Migrator().HasTable("watchlist_symbols"))
}

// TestOpenerFor_Unsupported は未対応ドライバでエラーを返すことを検証します。
func TestOpenerFor_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := OpenerFor("mysql")
	assert.Error(t, err)
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg := LoadConfigFromEnv()

	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "envpass", cfg.Password)
	assert.Equal(t, "envdb", cfg.Name)
	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.True(t, cfg.RunMigrations)
}

// TestLoadConfigFromEnv_DefaultDriver はDB_DRIVER未設定時にsqliteになることを検証します。
func TestLoadConfigFromEnv_DefaultDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "")

	assert.Equal(t, DriverSQLite, LoadConfigFromEnv().Driver)
}
