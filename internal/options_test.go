package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServiceOptional(t *testing.T) {
	t.Run("ParsesFullConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.yaml")
		content := `base_url: http://localhost:5012
chat_path: /api/chat
stream_path: /api/chat/stream
default_model: unsloth/Qwen3-1.7B-bnb-4bit
headers:
  Authorization: Bearer token-123
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		opt, err := LoadServiceOptional(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5012", opt.BaseURL)
		assert.Equal(t, "/api/chat", opt.ChatPath)
		assert.Equal(t, "/api/chat/stream", opt.StreamPath)
		assert.Equal(t, "unsloth/Qwen3-1.7B-bnb-4bit", opt.DefaultModel)
		assert.Equal(t, "Bearer token-123", opt.Headers["Authorization"])
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadServiceOptional("/nonexistent/client.yaml")
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated"), 0o644))

		_, err := LoadServiceOptional(path)
		assert.Error(t, err)
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "agent", Message: "agent is required"}
	assert.Contains(t, err.Error(), "agent")
}
