package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replikit/tap-covid19/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api_token = "ghp_testtoken"
start_date = "2020-01-01T00:00:00Z"
user_agent = "tap-covid19 test@example.org"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ghp_testtoken", cfg.APIToken)
	assert.Equal(t, "2020-01-01T00:00:00Z", cfg.StartDate)
	assert.Equal(t, "tap-covid19 test@example.org", cfg.UserAgent)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, `api_token = [unclosed`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeConfig(t, `start_date = "2020-01-01T00:00:00Z"`)
	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrMissingAPIToken)
}

func TestLoad_MissingStartDate(t *testing.T) {
	path := writeConfig(t, `api_token = "ghp_x"`)
	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrMissingStartDate)
}

func TestLoad_InvalidStartDate(t *testing.T) {
	path := writeConfig(t, `
api_token = "ghp_x"
start_date = "March 2020"
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidStartDate)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".tap-covid19")
	assert.Equal(t, "config.toml", filepath.Base(path))
}
