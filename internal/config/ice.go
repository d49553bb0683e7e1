package config

import (
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

// ICEConfig lists the STUN/TURN servers handed to clients for the
// negotiation their signals describe. The server itself never opens a
// peer connection.
type ICEConfig struct {
	ServerEntries []ICEServerEntry `yaml:"servers"`
}

type ICEServerEntry struct {
	URLs       []string `yaml:"urls"`
	Username   string   `yaml:"username"`
	Credential string   `yaml:"credential"`
}

// Servers converts the configured entries into webrtc.ICEServer values,
// validating URL schemes and TURN credential requirements.
func (c ICEConfig) Servers() ([]webrtc.ICEServer, error) {
	out := make([]webrtc.ICEServer, 0, len(c.ServerEntries))
	for i, entry := range c.ServerEntries {
		urls := make([]string, 0, len(entry.URLs))
		for _, url := range entry.URLs {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			urls = append(urls, url)
		}

		server := webrtc.ICEServer{
			URLs:     urls,
			Username: strings.TrimSpace(entry.Username),
		}
		if strings.TrimSpace(entry.Credential) != "" {
			server.Credential = entry.Credential
		}

		if err := validateICEServer(server); err != nil {
			return nil, fmt.Errorf("ice.servers[%d]: %w", i, err)
		}
		out = append(out, server)
	}
	return out, nil
}

func validateICEServer(server webrtc.ICEServer) error {
	if len(server.URLs) == 0 {
		return fmt.Errorf("urls must not be empty")
	}

	needsCredentials := false
	for _, url := range server.URLs {
		scheme, _, found := strings.Cut(url, ":")
		if !found {
			return fmt.Errorf("malformed url %q", url)
		}
		switch strings.ToLower(scheme) {
		case "stun", "stuns":
		case "turn", "turns":
			needsCredentials = true
		default:
			return fmt.Errorf("unsupported url scheme %q", scheme)
		}
	}

	if needsCredentials && (server.Username == "" || server.Credential == nil) {
		return fmt.Errorf("turn urls require username and credential")
	}
	return nil
}
