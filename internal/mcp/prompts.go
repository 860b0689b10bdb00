package mcp

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/opsgate/internal/common"
)

// PromptDescriptor is one entry of the static prompt catalog: metadata plus
// the prompt body. The catalog is read-only, loaded once at startup, and
// exposed only through the MCP surface's prompt capability.
type PromptDescriptor struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Category    string `toml:"category"`
	Content     string `toml:"content"`
}

// promptCatalog is the TOML file shape: a list of [[prompt]] tables.
type promptCatalog struct {
	Prompts []PromptDescriptor `toml:"prompt"`
}

// LoadPromptCatalog reads the prompt catalog from path. A missing file is
// non-fatal and yields an empty catalog; a malformed file or an invalid
// descriptor aborts startup.
func LoadPromptCatalog(path string, logger *common.Logger) ([]PromptDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().
				Str("path", path).
				Msg("prompt catalog not found, starting with 0 prompts")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read prompt catalog %s: %w", path, err)
	}

	var catalog promptCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse prompt catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(catalog.Prompts))
	for _, p := range catalog.Prompts {
		if p.Name == "" {
			return nil, fmt.Errorf("prompt catalog %s contains a prompt with no name", path)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("prompt catalog %s contains duplicate prompt %q", path, p.Name)
		}
		seen[p.Name] = true
	}

	return catalog.Prompts, nil
}
