package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090", "-i", "10", "-s", "/tmp/m.db", "-l", "debug"},
			want: &Config{
				APIBaseURL:         "http://127.0.0.1:9090",
				TokenCheckInterval: 10 * time.Second,
				StorageDSN:         "/tmp/m.db",
				LogLevel:           "debug",
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-env-file", "x.env", "-a", "http://h"},
			want: &Config{APIBaseURL: "http://h"},
		},
		{
			name:    "incorrect check interval",
			args:    []string{"-a", "http://127.0.0.1:9090", "-i", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}
