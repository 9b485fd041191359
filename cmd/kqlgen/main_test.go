package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/kqlgen/internal/config"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "Telemetry", want: []string{"Telemetry"}},
		{name: "spaces and blanks", value: " Telemetry, ,Audit ,", want: []string{"Telemetry", "Audit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseList(tt.value))
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := &config.Config{Source: config.Source{URL: "https://c", ClientSecret: "s3cret", Token: "tok"}}

	c := redacted(cfg)
	require.Equal(t, "***", c.Source.ClientSecret)
	require.Equal(t, "***", c.Source.Token)
	require.Equal(t, "https://c", c.Source.URL)
	require.Equal(t, "s3cret", cfg.Source.ClientSecret)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = newLogger("loud")
	require.Error(t, err)
}

func TestCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "generate")
	require.Contains(t, names, "inspect")

	require.NotNil(t, generateCmd.Flags().Lookup("no-context"))
	require.NotNil(t, inspectCmd.Flags().Lookup("format"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("databases"))
}
