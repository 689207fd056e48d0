package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()
	assert.Equal(t, "inventory.db", cfg.DBDSN)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "memory", cfg.TokenStore)
	assert.Equal(t, "log", cfg.EventsBackend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
}
