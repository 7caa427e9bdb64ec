package dbx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), "sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()

	var q DBTX = db
	_, err = q.ExecContext(context.Background(), `CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)

	_, err = q.ExecContext(context.Background(), `INSERT INTO t(v) VALUES ('ok')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM t`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "nosuchdriver", "x")
	require.Error(t, err)
}

func TestOpen_PingFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, "sqlite", "file:dbx_ping?mode=memory")
	require.Error(t, err)
}
