package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: 8080
backend:
  driver: rest
  rest:
    base_url: https://example.supabase.co
    api_key: file-key
field:
  default_project_id: P900
schedule:
  briefing: "0 8 * * *"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("SUPABASE_KEY", "env-key")
	t.Setenv("PORT", "9000")

	c := Load(path)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "https://example.supabase.co", c.Backend.REST.BaseURL)
	assert.Equal(t, "env-key", c.Backend.REST.APIKey)
	assert.Equal(t, "P900", c.Field.DefaultProjectID)
	assert.Equal(t, "0 8 * * *", c.Schedule.Briefing)
	// untouched defaults survive a partial file
	assert.Equal(t, "@every 5m", c.Schedule.Refresh)
	assert.Equal(t, "qwen-plus", c.AI.Model)
	assert.Equal(t, ":9000", c.Addr())
}

func TestDurationsAndLocation(t *testing.T) {
	c := Default()
	assert.Equal(t, 15*time.Second, c.RESTTimeout())
	assert.Equal(t, 7*24*time.Hour, c.TokenTTL())

	c.Field.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, c.Location())
}

func TestOpenGormDBRejectsREST(t *testing.T) {
	c := Default()
	_, err := c.OpenGormDB()
	assert.Error(t, err)
}
