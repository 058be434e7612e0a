package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/querykit/internal/testutil"
	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
	"github.com/leapstack-labs/querykit/pkg/querybuilder"
)

func setupTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	ctx := context.Background()

	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: MemoryPath}))
	t.Cleanup(func() { _ = adp.Close() })

	_, err := adp.Query(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)")
	require.NoError(t, err)
	return adp
}

func insertUser(t *testing.T, adp *Adapter, name string, age int) {
	t.Helper()
	qb, err := querybuilder.New("INSERT INTO users (name, age) VALUES (@name@, #age#)")
	require.NoError(t, err)
	require.NoError(t, qb.Bind("name", name))
	require.NoError(t, qb.Bind("age", age))

	res, err := qb.Execute(context.Background(), adp)
	require.NoError(t, err)
	assert.Equal(t, core.RowCount(1), res)
}

func TestAdapter_WriteResults(t *testing.T) {
	ctx := context.Background()
	adp := setupTestAdapter(t)

	insertUser(t, adp, "alice", 30)
	id, err := adp.LastInsertID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	insertUser(t, adp, "O'Brien", 41)
	id, err = adp.LastInsertID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, int64(1), adp.AffectedRows())

	res, err := adp.Query(ctx, "UPDATE users SET age = age + 1")
	require.NoError(t, err)
	assert.Equal(t, core.RowCount(2), res)
	assert.Equal(t, int64(2), adp.AffectedRows())
}

func TestAdapter_ReadResults(t *testing.T) {
	ctx := context.Background()
	adp := setupTestAdapter(t)
	insertUser(t, adp, "alice", 30)
	insertUser(t, adp, "O'Brien", 41)

	t.Run("single row", func(t *testing.T) {
		res, err := adp.Query(ctx, "SELECT name, age FROM users WHERE name = 'O''Brien'")
		require.NoError(t, err)

		row, ok := res.(*core.Row)
		require.True(t, ok, "expected *core.Row, got %T", res)
		name, err := row.Get("name")
		require.NoError(t, err)
		assert.Equal(t, "O'Brien", name)

		_, err = row.Get("email")
		assert.ErrorIs(t, err, core.ErrNoSuchField)
	})

	t.Run("single row as set", func(t *testing.T) {
		res, err := adp.Query(ctx, "SELECT name FROM users WHERE id = 1", core.AsSet())
		require.NoError(t, err)

		cur, ok := res.(*core.BufferedCursor)
		require.True(t, ok, "expected *core.BufferedCursor, got %T", res)
		assert.Equal(t, 1, cur.Len())
	})

	t.Run("buffered set", func(t *testing.T) {
		res, err := adp.Query(ctx, "SELECT id, name FROM users ORDER BY id")
		require.NoError(t, err)

		cur, ok := res.(*core.BufferedCursor)
		require.True(t, ok, "expected *core.BufferedCursor, got %T", res)
		assert.Equal(t, []string{"id", "name"}, cur.Columns())

		rows, err := core.Collect(cur)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, map[string]any{"id": int64(2), "name": "O'Brien"}, rows[1].Map())

		require.NoError(t, cur.Rewind())
		require.True(t, cur.Next())
		assert.Equal(t, "alice", cur.Row().Values()[1])
	})

	t.Run("unbuffered set", func(t *testing.T) {
		res, err := adp.Query(ctx, "SELECT id FROM users ORDER BY id", core.Unbuffered())
		require.NoError(t, err)

		cur, ok := res.(*core.StreamCursor)
		require.True(t, ok, "expected *core.StreamCursor, got %T", res)
		defer func() { _ = cur.Close() }()

		rows, err := core.Collect(cur)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.ErrorIs(t, cur.Rewind(), core.ErrNotRestartable)
	})

	t.Run("no rows", func(t *testing.T) {
		res, err := adp.Query(ctx, "SELECT id FROM users WHERE id = 99")
		require.NoError(t, err)
		assert.Equal(t, core.None, res)
	})
}

func TestAdapter_UpdateBuilder(t *testing.T) {
	ctx := context.Background()
	adp := setupTestAdapter(t)
	insertUser(t, adp, "alice", 30)

	ub, err := querybuilder.NewUpdate("users", "id = #id#")
	require.NoError(t, err)
	ub.AddField("name", "alicia")
	ub.AddField("age", 31)
	require.NoError(t, ub.Bind("id", 1))

	res, err := ub.Execute(ctx, adp)
	require.NoError(t, err)
	assert.Equal(t, core.RowCount(1), res)

	res, err = adp.Query(ctx, "SELECT name, age FROM users WHERE id = 1")
	require.NoError(t, err)
	row := res.(*core.Row)
	assert.Equal(t, []any{"alicia", int64(31)}, row.Values())
}

func TestAdapter_QueryErrors(t *testing.T) {
	ctx := context.Background()
	adp := setupTestAdapter(t)

	_, err := adp.Query(ctx, "SELECT * FROM missing_table")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrQuery))
	assert.False(t, errors.Is(err, core.ErrUnavailable))
}

func TestAdapter_OpenModes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("missing file without create", func(t *testing.T) {
		adp := New(nil)
		err := adp.Connect(ctx, adapter.Config{Path: filepath.Join(dir, "missing.db")})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrConnection)
	})

	path := filepath.Join(dir, "app.db")

	t.Run("create", func(t *testing.T) {
		adp := New(nil)
		require.NoError(t, adp.Connect(ctx, adapter.Config{Path: path, Params: map[string]any{"create": true}}))
		_, err := adp.Query(ctx, "CREATE TABLE t (v TEXT)")
		require.NoError(t, err)
		require.NoError(t, adp.Close())
	})

	t.Run("read only wins over create", func(t *testing.T) {
		adp := New(testutil.NewTestLogger(t))
		require.NoError(t, adp.Connect(ctx, adapter.Config{
			Path:   path,
			Params: map[string]any{"create": "true", "read_only": "true"},
		}))
		defer func() { _ = adp.Close() }()

		_, err := adp.Query(ctx, "INSERT INTO t (v) VALUES ('x')")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrQuery)
	})
}

func TestAdapter_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snap.db")

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: path, Params: map[string]any{"create": true}}))
	_, err := adp.Query(ctx, "CREATE TABLE t (v INTEGER)")
	require.NoError(t, err)
	_, err = adp.Query(ctx, "INSERT INTO t (v) VALUES (7)")
	require.NoError(t, err)

	snap, err := adp.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, core.Snapshot{Database: path}, snap)
	assert.False(t, adp.IsConnected())

	_, err = adp.Query(ctx, "SELECT v FROM t")
	assert.ErrorIs(t, err, core.ErrNotConnected)

	restored := New(nil)
	require.NoError(t, restored.Restore(ctx, snap))
	defer func() { _ = restored.Close() }()

	res, err := restored.Query(ctx, "SELECT v FROM t")
	require.NoError(t, err)
	v, err := res.(*core.Row).Get("v")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(nil)
	require.NoError(t, err)
	assert.Equal(t, Params{BusyTimeout: DefaultBusyTimeout}, p)

	p, err = ParseParams(map[string]any{"create": "1", "busy_timeout": "1500"})
	require.NoError(t, err)
	assert.True(t, p.Create)
	assert.Equal(t, 1500, p.BusyTimeout)

	_, err = ParseParams(map[string]any{"journal": "wal"})
	assert.Error(t, err)
}

func TestBuildSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_pragma=busy_timeout(500)", buildSQLiteDSN(MemoryPath, Params{BusyTimeout: 500}))
	assert.Equal(t, "file:/data/app.db?mode=ro&_pragma=busy_timeout(500)", buildSQLiteDSN("/data/app.db", Params{ReadOnly: true, BusyTimeout: 500}))
	assert.Equal(t, "file:/data/app.db?mode=rwc&_pragma=busy_timeout(500)", buildSQLiteDSN("/data/app.db", Params{Create: true, BusyTimeout: 500}))
	assert.Equal(t, "file:/data/app.db?mode=rw&_pragma=busy_timeout(500)", buildSQLiteDSN("/data/app.db", Params{BusyTimeout: 500}))
}
