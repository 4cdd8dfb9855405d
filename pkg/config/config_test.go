package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 50, cfg.Scheduler.DefaultAttempts)
	assert.Equal(t, 500, cfg.Scheduler.MaxAttempts)
	assert.Equal(t, 5, cfg.Scheduler.DaysPerWeek)
	assert.Equal(t, 10, cfg.Scheduler.HoursPerDay)
	assert.Equal(t, 2, cfg.Scheduler.MultiResourceRooms)
	assert.Equal(t, float64(1000), cfg.Scheduler.WeightUnassigned)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.ResultCacheTTL)
}

func TestLoadClampsAttempts(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SCHEDULER_MAX_ATTEMPTS", "900")
	t.Setenv("SCHEDULER_DEFAULT_ATTEMPTS", "800")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Scheduler.MaxAttempts)
	assert.Equal(t, 500, cfg.Scheduler.DefaultAttempts)
}

func TestLoadReadsEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("SCHEDULER_HOURS_PER_DAY=8\nSCHEDULER_RESULT_CACHE_TTL=2m\nREDIS_ENABLED=true\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SCHEDULER_HOURS_PER_DAY")
		os.Unsetenv("SCHEDULER_RESULT_CACHE_TTL")
		os.Unsetenv("REDIS_ENABLED")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scheduler.HoursPerDay)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.ResultCacheTTL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadAllowedOrigins(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ALLOWED_ORIGINS", " https://timetable.school.id, ,http://localhost:5173 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://timetable.school.id", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}
