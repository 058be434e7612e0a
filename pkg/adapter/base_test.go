package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/querykit/internal/testutil"
	"github.com/leapstack-labs/querykit/pkg/core"
)

func newMockAdapter(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db, Driver: "mock", Logger: testutil.NewTestLogger(t)}, mock
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.False(t, base.IsConnected())
		})
	}
}

func TestBaseSQLAdapter_QueryWrites(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		setupMock func(mock sqlmock.Sqlmock)
		want      core.Result
		lastID    int64
		affected  int64
	}{
		{
			name: "insert returns affected rows",
			sql:  "INSERT INTO users (name) VALUES ('bob')",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(42, 1))
			},
			want:     core.RowCount(1),
			lastID:   42,
			affected: 1,
		},
		{
			name: "update returns affected rows",
			sql:  "  update users SET active = 0",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("update users").WillReturnResult(sqlmock.NewResult(0, 3))
			},
			want:     core.RowCount(3),
			affected: 3,
		},
		{
			name: "control statement returns none",
			sql:  "SET NAMES utf8mb4",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("SET NAMES").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: core.None,
		},
		{
			name: "ddl returns none",
			sql:  "CREATE TABLE users (id INT)",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: core.None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base, mock := newMockAdapter(t)
			tt.setupMock(mock)

			res, err := base.Query(ctx, tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)

			id, err := base.LastInsertID(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.lastID, id)
			assert.Equal(t, tt.affected, base.AffectedRows())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_QueryReads(t *testing.T) {
	rowsOf := func(n int) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id", "name"})
		for i := 1; i <= n; i++ {
			rows.AddRow(int64(i), []byte("user"))
		}
		return rows
	}

	tests := []struct {
		name  string
		rows  int
		opts  []core.QueryOption
		check func(t *testing.T, res core.Result)
	}{
		{
			name: "no rows",
			rows: 0,
			check: func(t *testing.T, res core.Result) {
				assert.Equal(t, core.None, res)
			},
		},
		{
			name: "single row",
			rows: 1,
			check: func(t *testing.T, res core.Result) {
				row, ok := res.(*core.Row)
				require.True(t, ok, "got %T", res)
				name, err := row.Get("name")
				require.NoError(t, err)
				assert.Equal(t, "user", name, "byte slices are returned as strings")
			},
		},
		{
			name: "single row as set",
			rows: 1,
			opts: []core.QueryOption{core.AsSet()},
			check: func(t *testing.T, res core.Result) {
				cur, ok := res.(*core.BufferedCursor)
				require.True(t, ok, "got %T", res)
				assert.Equal(t, 1, cur.Len())
			},
		},
		{
			name: "many rows buffered",
			rows: 3,
			check: func(t *testing.T, res core.Result) {
				cur, ok := res.(*core.BufferedCursor)
				require.True(t, ok, "got %T", res)
				assert.Equal(t, 3, cur.Len())
				assert.Equal(t, int64(3), cur.At(2).Values()[0])
				assert.Nil(t, cur.At(3))
			},
		},
		{
			name: "many rows unbuffered",
			rows: 3,
			opts: []core.QueryOption{core.Unbuffered()},
			check: func(t *testing.T, res core.Result) {
				cur, ok := res.(*core.StreamCursor)
				require.True(t, ok, "got %T", res)
				require.NoError(t, cur.Rewind(), "rewind before iterating is allowed")

				rows, err := core.Collect(cur)
				require.NoError(t, err)
				assert.Len(t, rows, 3)
				assert.ErrorIs(t, cur.Rewind(), core.ErrNotRestartable)
				assert.NoError(t, cur.Close())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMockAdapter(t)
			mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(rowsOf(tt.rows))

			res, err := base.Query(context.Background(), "SELECT id, name FROM users", tt.opts...)
			require.NoError(t, err)
			tt.check(t, res)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLAdapter_QueryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("not connected", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		_, err := base.Query(ctx, "SELECT 1")
		assert.ErrorIs(t, err, core.ErrNotConnected)

		_, err = base.LastInsertID(ctx)
		assert.ErrorIs(t, err, core.ErrNotConnected)
	})

	t.Run("default classification", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

		_, err := base.Query(ctx, "SELECT * FROM nowhere")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrQuery)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, errors.Is(err, core.ErrUnavailable))
	})

	t.Run("custom classification", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		base.ClassifyError = func(err error) error {
			return &core.QueryError{Engine: "mock", Code: "busy", Message: err.Error(), Unavailable: true, Err: err}
		}
		mock.ExpectExec("UPDATE").WillReturnError(assert.AnError)

		_, err := base.Query(ctx, "UPDATE t SET v = 1")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrUnavailable)

		var qe *core.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 503, qe.StatusCode())
	})
}

func TestBaseSQLAdapter_Snapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	base := &BaseSQLAdapter{
		DB: db,
		Cfg: core.AdapterConfig{
			Type:     "mysql",
			Host:     "db.internal",
			Port:     3306,
			Username: "app",
			Password: "secret",
			Database: "shop",
		},
	}

	snap, err := base.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, core.Snapshot{Host: "db.internal", Username: "app", Password: "secret", Database: "shop", Port: 3306}, snap)
	assert.False(t, base.IsConnected())
	assert.NoError(t, mock.ExpectationsWereMet())
}
