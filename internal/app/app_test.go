package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/opsgate/internal/common"
	"github.com/bobmcallan/opsgate/internal/config"
	"github.com/bobmcallan/opsgate/internal/registry"
	"github.com/bobmcallan/opsgate/internal/schema"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Prompts.Path = filepath.Join(t.TempDir(), "absent.toml")
	return cfg
}

func extraDef(name string) *registry.Definition {
	return &registry.Definition{
		Name:        name,
		Description: "collaborator tool",
		Parameters:  schema.Params{"intent": {Kind: schema.String, Required: true}},
		Handler: func(ctx context.Context, params map[string]any, rc *registry.RequestContext) (any, error) {
			return "ok", nil
		},
	}
}

func TestNew_RegistersBuiltinsAndExtras(t *testing.T) {
	a, err := New(testConfig(t), common.NewSilentLogger(), extraDef("restart-service"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, ok := a.Registry.Get("get_version"); !ok {
		t.Error("expected the built-in get_version tool")
	}
	if _, ok := a.Registry.Get("restart-service"); !ok {
		t.Error("expected the collaborator tool")
	}
	if a.Registry.Count() != 2 {
		t.Errorf("expected 2 tools, got %d", a.Registry.Count())
	}

	if a.Router == nil || a.OpenAPI == nil || a.Gateway == nil {
		t.Error("expected all surfaces to be wired")
	}
	if a.Gateway.ToolCount() != a.Registry.Count() {
		t.Errorf("MCP surface exposes %d tools, registry holds %d",
			a.Gateway.ToolCount(), a.Registry.Count())
	}
}

func TestNew_DuplicateExtraAborts(t *testing.T) {
	_, err := New(testConfig(t), common.NewSilentLogger(),
		extraDef("dup"), extraDef("dup"))
	if err == nil {
		t.Fatal("expected wiring to fail on a duplicate tool")
	}
}

func TestNew_BadSchemaAborts(t *testing.T) {
	bad := extraDef("bad")
	bad.Parameters = schema.Params{"when": {Kind: schema.Kind("timestamp")}}

	if _, err := New(testConfig(t), common.NewSilentLogger(), bad); err == nil {
		t.Fatal("expected wiring to fail on an untranslatable schema")
	}
}

func TestNew_PromptCatalogLoaded(t *testing.T) {
	cfg := testConfig(t)
	// Point at a real catalog.
	dir := t.TempDir()
	cfg.Prompts.Path = filepath.Join(dir, "prompts.toml")
	writePrompts(t, cfg.Prompts.Path)

	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a.Gateway.PromptCount() != 1 {
		t.Errorf("expected 1 prompt, got %d", a.Gateway.PromptCount())
	}
}

func writePrompts(t *testing.T, path string) {
	t.Helper()

	content := `
[[prompt]]
name = "triage-incident"
description = "Structured incident triage"
content = "Investigate the incident step by step."
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write prompt catalog: %v", err)
	}
}
