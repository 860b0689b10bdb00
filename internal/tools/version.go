// Package tools contains the built-in tool definitions the gateway itself
// contributes. Domain tools arrive from collaborators at wiring time; the
// built-ins exist so a freshly wired gateway is never empty and so
// connectivity can be verified over either surface.
package tools

import (
	"context"

	"github.com/bobmcallan/opsgate/internal/config"
	"github.com/bobmcallan/opsgate/internal/registry"
	"github.com/bobmcallan/opsgate/internal/schema"
)

// versionInfo holds version fields reported by the get_version tool.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// Version returns the get_version tool definition. It takes no parameters
// and reports build information. Use it to verify connectivity.
func Version() *registry.Definition {
	return &registry.Definition{
		Name:        "get_version",
		Description: "Get opsgate version and build information. Use this to verify connectivity.",
		Category:    "system",
		Tags:        []string{"diagnostics"},
		Parameters:  schema.Params{},
		Handler: func(ctx context.Context, params map[string]any, rc *registry.RequestContext) (any, error) {
			return versionInfo{
				Version: config.GetVersion(),
				Build:   config.GetBuild(),
				Commit:  config.GetGitCommit(),
			}, nil
		},
	}
}
