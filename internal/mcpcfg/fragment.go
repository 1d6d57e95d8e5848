// Package mcpcfg builds the project-level MCP configuration fragment
// that webhook and mcp_config generation targets merge into. The
// fragment is returned to the caller rather than written one file per
// target.
package mcpcfg

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ServerEntry is one MCP server stanza. Scaffolded entries are stdio
// placeholders the user fills in with the real command.
type ServerEntry struct {
	Type    string            `json:"type,omitempty"` // stdio or sse
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// WebhookEntry is one inbound webhook route stanza
type WebhookEntry struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// Fragment is the merged configuration produced by one scaffold attempt
type Fragment struct {
	MCPServers map[string]ServerEntry  `json:"mcpServers,omitempty"`
	Webhooks   map[string]WebhookEntry `json:"webhooks,omitempty"`
}

// New returns an empty fragment
func New() *Fragment {
	return &Fragment{
		MCPServers: make(map[string]ServerEntry),
		Webhooks:   make(map[string]WebhookEntry),
	}
}

// AddServer merges an mcp_config target into the fragment as a stdio
// placeholder entry
func (f *Fragment) AddServer(name string) {
	f.MCPServers[name] = ServerEntry{
		Type:    "stdio",
		Command: "",
		Env:     map[string]string{},
	}
}

// AddWebhook merges a webhook target into the fragment, routed under
// /hooks/<name>
func (f *Fragment) AddWebhook(name string) {
	f.Webhooks[name] = WebhookEntry{
		Path:    "/hooks/" + name,
		Enabled: true,
	}
}

// Empty reports whether the fragment carries no entries
func (f *Fragment) Empty() bool {
	return len(f.MCPServers) == 0 && len(f.Webhooks) == 0
}

// Encode renders the fragment as indented JSON
func (f *Fragment) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode MCP config fragment")
	}
	return data, nil
}
