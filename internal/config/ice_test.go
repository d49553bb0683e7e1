package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/config"
)

func TestICEConfig_Servers(t *testing.T) {
	cfg := config.ICEConfig{
		ServerEntries: []config.ICEServerEntry{
			{URLs: []string{"stun:stun.l.google.com:19302", " "}},
			{
				URLs:       []string{"turn:turn.example.com:3478"},
				Username:   "user",
				Credential: "pass",
			},
		},
	}

	servers, err := cfg.Servers()
	require.NoError(t, err)
	require.Len(t, servers, 2)

	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, servers[0].URLs)
	assert.Empty(t, servers[0].Username)

	assert.Equal(t, "user", servers[1].Username)
	assert.Equal(t, "pass", servers[1].Credential)
}

func TestICEConfig_Empty(t *testing.T) {
	servers, err := config.ICEConfig{}.Servers()
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestICEConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		entry config.ICEServerEntry
	}{
		{"no urls", config.ICEServerEntry{}},
		{"only blank urls", config.ICEServerEntry{URLs: []string{"  "}}},
		{"bad scheme", config.ICEServerEntry{URLs: []string{"http://example.com"}}},
		{"malformed url", config.ICEServerEntry{URLs: []string{"no-scheme"}}},
		{"turn without credentials", config.ICEServerEntry{URLs: []string{"turn:turn.example.com:3478"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ICEConfig{ServerEntries: []config.ICEServerEntry{tt.entry}}.Servers()
			assert.Error(t, err)
		})
	}
}
