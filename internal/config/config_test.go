package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// chdir меняет рабочий каталог с откатом после теста.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
http:
  host: "127.0.0.1"
  port: "9000"
grpc:
  port: "6000"
db:
  driver: "mongo"
  url: "mongodb://localhost:27017/board?replicaSet=rs0"
limits:
  default: 15
  max: 200
timeouts:
  service: "3s"
  shutdown: "20s"
`

const minimalYAML = `
db:
  url: "postgres://localhost/board"
`

const brokenYAML = `
db:
  url: "postgres://broken
`

func TestAddr(t *testing.T) {
	t.Parallel()
	require.Equal(t, "127.0.0.1:8080", HTTPConfig{Host: "127.0.0.1", Port: "8080"}.Addr())
	require.Equal(t, "[::1]:50055", GRPCConfig{Host: "::1", Port: "50055"}.Addr())
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeFile(t, t.TempDir(), "config.yaml", sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	require.Equal(t, "0.0.0.0", cfg.GRPC.Host)
	require.Equal(t, "6000", cfg.GRPC.Port)
	require.Equal(t, DriverMongo, cfg.DB.Driver)
	require.Equal(t, "mongodb://localhost:27017/board?replicaSet=rs0", cfg.DB.URL)
	require.Equal(t, 15, cfg.Limits.Default)
	require.Equal(t, 200, cfg.Limits.Max)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 20*time.Second, cfg.Timeouts.Shutdown)
}

func TestLoad_ExplicitPath_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

func TestLoad_ExplicitPath_Broken(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, t.TempDir(), "broken.yaml", brokenYAML))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_CONFIG_PATH_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeFile(t, t.TempDir(), "env.yaml", minimalYAML))

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.Equal(t, "0.0.0.0:50055", cfg.GRPC.Addr())
	require.Equal(t, DriverPostgres, cfg.DB.Driver)
	require.Equal(t, 20, cfg.Limits.Default)
	require.Equal(t, 100, cfg.Limits.Max)
	require.Equal(t, 5*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 10*time.Second, cfg.Timeouts.Shutdown)
}

func TestLoad_LocalYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, DriverMongo, cfg.DB.Driver)
}

func TestLoad_EnvOverlaysYAML(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:board.db")
	t.Setenv("MAX_LIMIT", "50")

	cfg, err := Load(writeFile(t, t.TempDir(), "config.yaml", sampleYAML))
	require.NoError(t, err)

	require.Equal(t, DriverSQLite, cfg.DB.Driver)
	require.Equal(t, "file:board.db", cfg.DB.URL)
	require.Equal(t, 50, cfg.Limits.Max)
	require.Equal(t, 15, cfg.Limits.Default)
}

func TestLoad_EnvOnly(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("HTTP_PORT", "7081")
	t.Setenv("DEFAULT_LIMIT", "10")
	t.Setenv("SERVICE", "7s")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, DriverSQLite, cfg.DB.Driver)
	require.Equal(t, "file::memory:", cfg.DB.URL)
	require.Equal(t, "7081", cfg.HTTP.Port)
	require.Equal(t, 10, cfg.Limits.Default)
	require.Equal(t, 7*time.Second, cfg.Timeouts.Service)
}

func TestLoad_Priority_ExplicitOverConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "bad.yaml", brokenYAML))

	cfg, err := Load(writeFile(t, dir, "explicit.yaml", sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_Priority_ConfigPathOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, "local.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "env.yaml", sampleYAML))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_NothingProvided(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	if _, ok := os.LookupEnv("DATABASE_URL"); ok {
		t.Skip("DATABASE_URL is set in the environment")
	}

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "config not found")
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name, yaml, want string
	}{
		{
			name: "unknown driver",
			yaml: `db: { driver: "mysql", url: "x" }`,
			want: "db.driver must be one of",
		},
		{
			name: "default over max",
			yaml: `
db: { url: "postgres://x" }
limits: { default: 100, max: 10 }
`,
			want: "limits.default must be <= limits.max",
		},
		{
			name: "negative max",
			yaml: `
db: { url: "postgres://x" }
limits: { default: 1, max: -1 }
`,
			want: "limits.max must be > 0",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeFile(t, t.TempDir(), "c.yaml", tc.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMustLoad(t *testing.T) {
	t.Parallel()

	cfg := MustLoad(writeFile(t, t.TempDir(), "ok.yaml", minimalYAML))
	require.Equal(t, "postgres://localhost/board", cfg.DB.URL)

	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
