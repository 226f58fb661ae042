package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pribylovaa/go-board/internal/config"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "board.db") + "?_pragma=foreign_keys(1)"

	st, err := openStorage(context.Background(), config.DBConfig{Driver: config.DriverSQLite, URL: dsn})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Ping(context.Background()))
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, err := openStorage(context.Background(), config.DBConfig{Driver: "cassandra", URL: "x"})
	require.ErrorContains(t, err, "unknown db driver")
}

func TestSetupLogger_Levels(t *testing.T) {
	ctx := context.Background()

	require.True(t, setupLogger(envLocal).Enabled(ctx, slog.LevelDebug))
	require.True(t, setupLogger(envDev).Enabled(ctx, slog.LevelDebug))
	require.False(t, setupLogger(envProd).Enabled(ctx, slog.LevelDebug))
	require.True(t, setupLogger(envProd).Enabled(ctx, slog.LevelInfo))
}
