package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnvironment() map[string]string {
	return map[string]string{
		"APP_AWS_REGION":          "us-west-2",
		"APP_USER_POOL_ID":        "us-west-2_pool",
		"APP_USER_POOL_CLIENT_ID": "web-client",
		"APP_HOSTED_UI_DOMAIN":    "auth.example.com",
		"APP_TEST_API_ENDPOINT":   "https://api.example.com/dev",
	}
}

func TestLoadEnvironment(t *testing.T) {
	cfg, err := LoadEnvironment(validEnvironment())
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SessionFile)

	identityConfig := cfg.Identity()
	assert.Equal(t, "us-west-2", identityConfig.Region)
	assert.Equal(t, "us-west-2_pool", identityConfig.UserPoolID)
	assert.Equal(t, "web-client", identityConfig.UserPoolWebClientID)
	assert.Equal(t, "auth.example.com", identityConfig.OAuth.Domain)
	assert.Equal(t, []string{"openid", "profile", "test-api/read", "test-api/write"}, identityConfig.OAuth.Scope)
	assert.Equal(t, "http://localhost:8080", identityConfig.OAuth.RedirectSignIn)
	assert.Equal(t, "http://localhost:8080", identityConfig.OAuth.RedirectSignOut)
	assert.Equal(t, "code", identityConfig.OAuth.ResponseType)
	assert.NoError(t, identityConfig.Validate())
}

func TestLoadEnvironment_Missing(t *testing.T) {
	for key := range validEnvironment() {
		for _, mode := range []string{"absent", "empty"} {
			environment := validEnvironment()
			if mode == "absent" {
				delete(environment, key)
			} else {
				environment[key] = ""
			}
			cfg, err := LoadEnvironment(environment)
			assert.Nil(t, cfg, key)
			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr), "%v %v", key, mode)
			assert.Equal(t, []string{key}, configErr.Missing, "%v %v", key, mode)
			assert.Contains(t, err.Error(), key)
		}
	}
}

func TestLoadEnvironment_ReportsAllMissing(t *testing.T) {
	_, err := LoadEnvironment(map[string]string{"APP_AWS_REGION": "us-west-2"})
	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, []string{
		"APP_HOSTED_UI_DOMAIN",
		"APP_TEST_API_ENDPOINT",
		"APP_USER_POOL_CLIENT_ID",
		"APP_USER_POOL_ID",
	}, configErr.Missing)
}

func TestLoadEnvironment_Invalid(t *testing.T) {
	var testCases = []struct {
		description string
		key         string
		value       string
	}{
		{description: "relative endpoint", key: "APP_TEST_API_ENDPOINT", value: "/dev"},
		{description: "domain with path", key: "APP_HOSTED_UI_DOMAIN", value: "auth.example.com/login"},
		{description: "unknown log level", key: "APP_LOG_LEVEL", value: "loud"},
	}
	for _, testCase := range testCases {
		environment := validEnvironment()
		environment[testCase.key] = testCase.value
		_, err := LoadEnvironment(environment)
		var configErr *ConfigurationError
		require.True(t, errors.As(err, &configErr), testCase.description)
		assert.Empty(t, configErr.Missing, testCase.description)
		assert.Contains(t, err.Error(), testCase.key, testCase.description)
	}
}
