package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authboot/config"
)

func TestRun_InvalidLogLevel(t *testing.T) {
	for key, value := range map[string]string{
		"APP_AWS_REGION":          "us-east-1",
		"APP_USER_POOL_ID":        "us-east-1_pool",
		"APP_USER_POOL_CLIENT_ID": "client",
		"APP_HOSTED_UI_DOMAIN":    "auth.example.com",
		"APP_TEST_API_ENDPOINT":   "https://api.example.com",
		"APP_LOG_LEVEL":           "info",
		"APP_SESSION_FILE":        "",
		"APP_IDENTITY_ENDPOINT":   "",
	} {
		t.Setenv(key, value)
	}
	err := Run([]string{"--addr", "127.0.0.1:0", "--log-level", "loud"})
	require.Error(t, err)
	var configErr *config.ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, err.Error(), "loud")
}
