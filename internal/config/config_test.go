package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"BLOG_SECRET_KEY": "0123456789abcdef0123456789abcdef",
		"BLOG_DB_URI":     "postgres://blog:pw@localhost:5432/blog?sslmode=disable",
		"EMAIL_USER":      "noreply@example.com",
		"EMAIL_APP_PASS":  "app-pass",
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "smtp.googlemail.com", cfg.MailServer)
	assert.Equal(t, 587, cfg.MailPort)
	assert.True(t, cfg.MailUseTLS)
	assert.Equal(t, "noreply@example.com", cfg.MailSender)
	assert.Equal(t, 30*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 720*time.Hour, cfg.SessionRememberTTL)
	assert.Equal(t, 3, cfg.EmailWorkers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "smtp.googlemail.com:587", cfg.MailAddr())
	assert.Empty(t, cfg.Validate())
}

func TestFromLookup_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "BLOG_SECRET_KEY")
	env["EMAIL_APP_PASS"] = "   "

	_, err := FromLookup(lookupFrom(env))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "BLOG_SECRET_KEY")
	assert.Contains(t, err.Error(), "EMAIL_APP_PASS")
	assert.NotContains(t, err.Error(), "BLOG_DB_URI")
}

func TestFromLookup_Overrides(t *testing.T) {
	env := baseEnv()
	env["PASSWORD_RESET_TTL_MIN"] = "5"
	env["SITE_URL"] = "https://blog.example.com/"
	env["CORS_ORIGINS"] = "https://a.example.com, https://b.example.com"
	env["MAIL_SENDER"] = "Blog <blog@example.com>"

	cfg, err := FromLookup(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.PasswordResetTTL)
	assert.Equal(t, "https://blog.example.com", cfg.SiteURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "Blog <blog@example.com>", cfg.MailSender)
	assert.Contains(t, cfg.Validate(), "COOKIE_SECURE is false while SITE_URL is https")
}

func TestFromLookup_BadNumbers(t *testing.T) {
	for key, val := range map[string]string{
		"MAIL_PORT":              "smtp",
		"PASSWORD_RESET_TTL_MIN": "0",
		"SESSION_TTL":            "forever",
		"EMAIL_WORKERS":          "-1",
	} {
		env := baseEnv()
		env[key] = val
		_, err := FromLookup(lookupFrom(env))
		assert.Error(t, err, key)
	}
}

func TestGetDSNSafe(t *testing.T) {
	cfg := &Config{DBURI: "postgres://blog:secret@db:5432/blog?sslmode=disable"}
	assert.Equal(t, "postgres://blog:***@db:5432/blog?sslmode=disable", cfg.GetDSNSafe())

	cfg.DBURI = "postgres://db:5432/blog"
	assert.Equal(t, "postgres://db:5432/blog", cfg.GetDSNSafe())
}
