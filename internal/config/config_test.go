package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "kitchen-inventory-api", cfg.App.Name)
	assert.Equal(t, 0.16, cfg.Tax.VATRate)
	assert.Equal(t, 3*time.Second, cfg.Ledger.RemoteTimeout)
	assert.False(t, cfg.Ledger.RemoteEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAX_VAT_RATE", "0.15")
	t.Setenv("LEDGER_REMOTE_TIMEOUT_MS", "250")

	cfg := Load()

	assert.Equal(t, 0.15, cfg.Tax.VATRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.RemoteTimeout)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
