package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
[server]
http_port = 8080
read_timeout = 15
write_timeout = 15

[database]
host = "localhost"
port = 5432
user = "booking"
password = "booking"
dbname = "mfb_booking"
sslmode = "disable"

[logs]
file = "logs/booking-service.log"
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "mfb-booking-service"

[rate_limit]
enabled = true
rps = 10.0
burst = 20

[facility_registry]
url = "http://localhost:8081"
timeout = 5
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "mfb_booking", cfg.Database.DBName)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, "http://localhost:8081", cfg.FacilityRegistry.URL)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name: "missing http port",
			config: `
[database]
host = "localhost"
dbname = "mfb_booking"

[facility_registry]
url = "http://localhost:8081"
`,
		},
		{
			name: "missing database host",
			config: `
[server]
http_port = 8080

[database]
dbname = "mfb_booking"

[facility_registry]
url = "http://localhost:8081"
`,
		},
		{
			name: "missing registry url",
			config: `
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "mfb_booking"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.config))

			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "booking",
		Password: "secret",
		DBName:   "mfb_booking",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db.local port=5432 user=booking password=secret dbname=mfb_booking sslmode=disable", cfg.DSN())
}
