package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_DB", "")
	t.Setenv("OTP_TTL_MINUTES", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4001", cfg.App.Addr())
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL())
	assert.Equal(t, "@dolluzcorp.com", cfg.Helpdesk.CorporateDomain)
	assert.Equal(t, "DZIND", cfg.Helpdesk.TicketPrefix)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.AttachmentMaxBytes())
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.ProfileImageMaxBytes())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("OTP_TTL_MINUTES", "2")
	t.Setenv("OTP_COOLDOWN_SECONDS", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL())
	assert.Equal(t, 30*time.Second, cfg.OTP.Cooldown())
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.Error(t, err)
}

func TestDurationsFallBack(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 15*time.Second, SMTPConfig{}.Timeout())
	assert.Equal(t, 4*1024*1024, AppConfig{}.BodyLimit())
}

func TestLoadBootstrapAdmin(t *testing.T) {
	t.Setenv("HELPDESK_BOOTSTRAP_ADMIN_EMAIL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Helpdesk.BootstrapAdmin.Email)
	assert.Equal(t, "Helpdesk Admin", cfg.Helpdesk.BootstrapAdmin.Name)

	t.Setenv("HELPDESK_BOOTSTRAP_ADMIN_EMAIL", "root@dolluzcorp.com")
	t.Setenv("HELPDESK_BOOTSTRAP_ADMIN_PASSWORD", "first-login")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "root@dolluzcorp.com", cfg.Helpdesk.BootstrapAdmin.Email)
	assert.Equal(t, "first-login", cfg.Helpdesk.BootstrapAdmin.Password)
}
