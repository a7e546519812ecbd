package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.False(t, config.Has("anything"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")

	require.NoError(t, os.WriteFile(first, []byte("PARLA_TEST_A=one\nPARLA_TEST_B=one\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("PARLA_TEST_B=two\nPARLA_TEST_C=two\n"), 0644))
	t.Setenv("PARLA_TEST_C", "env")

	config := NewConfigFromEnv(first, second, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "one", config.Get("PARLA_TEST_A"))
	assert.Equal(t, "two", config.Get("PARLA_TEST_B"))
	assert.Equal(t, "env", config.Get("PARLA_TEST_C"))

	// Files must not leak into the process environment
	_, set := os.LookupEnv("PARLA_TEST_A")
	assert.False(t, set)
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
}

func TestConfigGetBoolWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"true_bool":      "true",
		"false_bool":     "false",
		"true_yes":       "yes",
		"false_off":      "off",
		"true_enabled":   "Enabled",
		"false_disabled": "disabled",
		"invalid":        "maybe",
		"empty":          "",
	})

	tests := []struct {
		key      string
		fallback bool
		expected bool
	}{
		{"true_bool", false, true},
		{"false_bool", true, false},
		{"true_yes", false, true},
		{"false_off", true, false},
		{"true_enabled", false, true},
		{"false_disabled", true, false},
		{"invalid", true, true},
		{"empty", true, true},
		{"missing", false, false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			got := config.GetBoolWithDefault(test.key, test.fallback)
			assert.Equal(t, test.expected, got, "GetBoolWithDefault(%s)", test.key)
		})
	}
}

func TestConfigGetIntWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"valid_int":   "42",
		"negative":    "-10",
		"invalid_int": "not_a_number",
	})

	assert.Equal(t, 42, config.GetIntWithDefault("valid_int", 999))
	assert.Equal(t, -10, config.GetIntWithDefault("negative", 999))
	assert.Equal(t, 999, config.GetIntWithDefault("invalid_int", 999))
	assert.Equal(t, 999, config.GetIntWithDefault("missing", 999))
}

func TestConfigGetDurationWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"ttl":     "45m",
		"invalid": "soon",
	})

	assert.Equal(t, 45*time.Minute, config.GetDurationWithDefault("ttl", time.Hour))
	assert.Equal(t, time.Hour, config.GetDurationWithDefault("invalid", time.Hour))
	assert.Equal(t, time.Hour, config.GetDurationWithDefault("missing", time.Hour))
}

func TestConfigGetList(t *testing.T) {
	config := NewConfig(map[string]string{
		"origins": "http://a.example, ,http://b.example,",
	})

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, config.GetList("origins"))
	assert.Nil(t, config.GetList("missing"))
}

func TestConfigSet(t *testing.T) {
	config := NewConfig(map[string]string{})

	config.Set("new_key", "new_value")
	assert.Equal(t, "new_value", config.Get("new_key"))
	assert.True(t, config.Has("new_key"))

	config.Set("new_key", "updated_value")
	assert.Equal(t, "updated_value", config.Get("new_key"))
}

func TestConfigThreadSafety(t *testing.T) {
	config := NewConfig(map[string]string{"counter": "0"})

	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				config.Set("counter", "1")
				_ = config.GetIntWithDefault("counter", 0)
				_ = config.GetBoolWithDefault("counter", false)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, "1", config.Get("counter"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewConfig(map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "console"}))
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger(NewConfig(map[string]string{"LOG_LEVEL": "loud"}))
	assert.Error(t, err)
}
