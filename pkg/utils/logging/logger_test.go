package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(LogDirEnv, dir)

	logger, err := InitLogger("test")
	require.NoError(t, err)

	logger.Debug("Debug goes to the file only")
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Debug goes to the file only", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "timestamp")
}
