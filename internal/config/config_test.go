package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppConfig_Defaults(t *testing.T) {
	t.Setenv("MEMYBOT_RUNTIME_PATH", "/tmp/memybot-test")

	cfg, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/memybot-test", cfg.GetRuntimePath())
	assert.Equal(t, "/tmp/memybot-test/memybot.db", cfg.GetDatabasePath())
	assert.Equal(t, "/tmp/memybot-test/.env", cfg.GetEnvPath())
	assert.True(t, cfg.EnableWeb)
	assert.False(t, cfg.EnableTelegram)
	assert.Equal(t, 10, cfg.MaxToolRounds)
	assert.Equal(t, 30, cfg.ContextWindowSize)
}

func TestParsePersonaConfig(t *testing.T) {
	t.Run("name required", func(t *testing.T) {
		t.Setenv("ME_NAME", "")
		_, err := ParsePersonaConfig()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ME_NAME", "Ada Lovelace")
		cfg, err := ParsePersonaConfig()
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", cfg.Name)
		assert.Equal(t, "me/resume.pdf", cfg.ResumePath)
		assert.Equal(t, "me/summary.txt", cfg.SummaryPath)
		assert.Equal(t, defaultBlurb, cfg.Blurb)
	})
}

func TestParseProviderConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name: "openai with key",
			env:  map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": "sk-test"},
		},
		{
			name:    "openai without key",
			env:     map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": ""},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "openrouter without key",
			env:     map[string]string{"LLM_PROVIDER": "openrouter", "OPENROUTER_API_KEY": ""},
			wantErr: "OPENROUTER_API_KEY",
		},
		{
			name: "ollama needs nothing",
			env:  map[string]string{"LLM_PROVIDER": "ollama"},
		},
		{
			name:    "custom without url",
			env:     map[string]string{"LLM_PROVIDER": "custom", "CUSTOM_OPENAI_BASE_URL": ""},
			wantErr: "CUSTOM_OPENAI_BASE_URL",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"LLM_PROVIDER": "gemini"},
			wantErr: "unknown llm provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := ParseProviderConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "gpt-4o-mini", cfg.Model)
		})
	}
}

func TestParsePushoverConfig(t *testing.T) {
	t.Run("required and missing", func(t *testing.T) {
		t.Setenv("PUSHOVER_TOKEN", "")
		t.Setenv("PUSHOVER_USER", "")
		t.Setenv("PUSHOVER_REQUIRED", "true")
		_, err := ParsePushoverConfig()
		require.Error(t, err)
	})

	t.Run("optional and missing", func(t *testing.T) {
		t.Setenv("PUSHOVER_TOKEN", "")
		t.Setenv("PUSHOVER_USER", "")
		t.Setenv("PUSHOVER_REQUIRED", "false")
		cfg, err := ParsePushoverConfig()
		require.NoError(t, err)
		assert.False(t, cfg.Enabled())
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv("PUSHOVER_TOKEN", "tok")
		t.Setenv("PUSHOVER_USER", "usr")
		cfg, err := ParsePushoverConfig()
		require.NoError(t, err)
		assert.True(t, cfg.Enabled())
		assert.Equal(t, "https://api.pushover.net/1/messages.json", cfg.URL)
	})
}
