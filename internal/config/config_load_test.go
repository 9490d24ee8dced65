package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withArgs runs LoadFromFlags against fresh flag and viper state
func withArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		pflag.CommandLine = pflag.NewFlagSet(originalArgs[0], pflag.ExitOnError)
		viper.Reset()
	})

	os.Args = append([]string{"sitecheck-reader"}, args...)
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()

	for _, name := range []string{"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "LOGFORMAT", "MAXFILESIZE", "APIKEY"} {
		t.Setenv("SITECHECK_"+name, "")
		os.Unsetenv("SITECHECK_" + name)
	}
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	return LoadFromFlags()
}

func TestLoadFromFlags_Defaults(t *testing.T) {
	cfg, err := withArgs(t)
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
}

func TestLoadFromFlags_Flags(t *testing.T) {
	dir := t.TempDir()

	cfg, err := withArgs(t,
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9000",
		"--dir="+dir,
		"--loglevel=debug",
		"--logformat=json",
		"--maxfilesize=1024",
		"--apikey=secret",
	)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, dir, cfg.PDFDirectory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.LogFormat)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		viper.Reset()
	})

	os.Args = []string{"sitecheck-reader"}
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()

	t.Setenv("SITECHECK_MODE", "server")
	t.Setenv("SITECHECK_HOST", "192.168.1.1")
	t.Setenv("SITECHECK_DIR", dir)
	t.Setenv("SITECHECK_LOGLEVEL", "warn")
	t.Setenv("PORT", "3000")
	t.Setenv("API_KEY", "from-env")

	cfg, err := LoadFromFlags()
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "192.168.1.1", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "invalid mode", args: []string{"--mode=invalid", "--dir=" + dir}, wantErr: "mode must be either"},
		{name: "invalid port", args: []string{"--mode=server", "--apikey=k", "--port=99999", "--dir=" + dir}, wantErr: "port must be"},
		{name: "server without key", args: []string{"--mode=server", "--dir=" + dir}, wantErr: "API key is required"},
		{name: "invalid log level", args: []string{"--loglevel=verbose", "--dir=" + dir}, wantErr: "invalid log level"},
		{name: "version", args: []string{"--version"}, wantErr: "version requested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := withArgs(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
