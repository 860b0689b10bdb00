package mcp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/opsgate/internal/common"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prompts.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

func TestLoadPromptCatalog(t *testing.T) {
	path := writeCatalog(t, `
[[prompt]]
name = "triage-incident"
description = "Structured incident triage"
category = "remediation"
content = "Investigate the incident step by step."

[[prompt]]
name = "summarize-deployment"
description = "Deployment summary"
content = "Summarize the deployment state."
`)

	prompts, err := LoadPromptCatalog(path, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("LoadPromptCatalog failed: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}

	first := prompts[0]
	if first.Name != "triage-incident" {
		t.Errorf("unexpected name %s", first.Name)
	}
	if first.Category != "remediation" {
		t.Errorf("unexpected category %s", first.Category)
	}
	if !strings.Contains(first.Content, "step by step") {
		t.Errorf("content not carried through: %q", first.Content)
	}
}

func TestLoadPromptCatalog_MissingFileIsEmpty(t *testing.T) {
	prompts, err := LoadPromptCatalog(filepath.Join(t.TempDir(), "absent.toml"), common.NewSilentLogger())
	if err != nil {
		t.Fatalf("missing catalog must not be an error, got %v", err)
	}
	if prompts != nil {
		t.Errorf("expected empty catalog, got %d prompts", len(prompts))
	}
}

func TestLoadPromptCatalog_MalformedFile(t *testing.T) {
	path := writeCatalog(t, `[[prompt]
name = broken`)

	if _, err := LoadPromptCatalog(path, common.NewSilentLogger()); err == nil {
		t.Error("expected error for malformed catalog")
	}
}

func TestLoadPromptCatalog_EmptyNameRejected(t *testing.T) {
	path := writeCatalog(t, `
[[prompt]]
name = ""
description = "no name"
content = "x"
`)

	if _, err := LoadPromptCatalog(path, common.NewSilentLogger()); err == nil {
		t.Error("expected error for prompt with no name")
	}
}

func TestLoadPromptCatalog_DuplicateNameRejected(t *testing.T) {
	path := writeCatalog(t, `
[[prompt]]
name = "dup"
content = "a"

[[prompt]]
name = "dup"
content = "b"
`)

	_, err := LoadPromptCatalog(path, common.NewSilentLogger())
	if err == nil {
		t.Fatal("expected error for duplicate prompt name")
	}
	if !strings.Contains(err.Error(), "dup") {
		t.Errorf("expected the duplicate name in the error, got %v", err)
	}
}
