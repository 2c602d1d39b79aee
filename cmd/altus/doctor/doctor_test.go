// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cldoctor "github.com/altus-cloud/altus/cmd/altus/cli/doctor"
	"github.com/altus-cloud/altus/lib/workspace"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isolateEnvironment points the workspace store and config directory
// into a fresh temp dir and returns the store path.
func isolateEnvironment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Chmod(dir, 0700); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	storePath := filepath.Join(dir, "workspaces.json")
	t.Setenv("ALTUS_WORKSPACES_FILE", storePath)
	t.Setenv("ALTUS_CONFIG_DIR", dir)
	return storePath
}

func saveWorkspace(t *testing.T, storePath, url, token string) {
	t.Helper()
	store := &workspace.Store{}
	store.Add("acme", &workspace.Workspace{
		URL:        url,
		Token:      token,
		LoggedInAt: time.Now(),
	})
	if err := workspace.SaveTo(store, storePath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
}

// resultByName finds a check result or fails the test.
func resultByName(t *testing.T, results []cldoctor.Result, name string) cldoctor.Result {
	t.Helper()
	for _, result := range results {
		if result.Name == name {
			return result
		}
	}
	t.Fatalf("no check named %q in %+v", name, results)
	return cldoctor.Result{}
}

func TestRunChecks_NothingLoggedIn(t *testing.T) {
	isolateEnvironment(t)

	results := runChecks(context.Background(), discardLogger())

	if got := resultByName(t, results, "configuration"); got.Status != cldoctor.StatusPass {
		t.Errorf("configuration = %s (%s), want pass", got.Status, got.Message)
	}
	if got := resultByName(t, results, "store permissions"); got.Status != cldoctor.StatusSkip {
		t.Errorf("store permissions = %s, want skip with no store file", got.Status)
	}
	selected := resultByName(t, results, "workspace selected")
	if selected.Status != cldoctor.StatusFail {
		t.Errorf("workspace selected = %s, want fail", selected.Status)
	}
	if !strings.Contains(selected.Message, "altus workspace login") {
		t.Errorf("message %q should carry login guidance", selected.Message)
	}
	if got := resultByName(t, results, "platform API"); got.Status != cldoctor.StatusSkip {
		t.Errorf("platform API = %s, want skip without a workspace", got.Status)
	}
}

func TestRunChecks_HealthyWorkspace(t *testing.T) {
	storePath := isolateEnvironment(t)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		json.NewEncoder(writer).Encode(map[string]string{
			"workspace": "acme",
			"user":      "ops@acme.example",
			"plan":      "pro",
		})
	}))
	defer server.Close()

	saveWorkspace(t, storePath, server.URL, "tok_live_abc123")

	results := runChecks(context.Background(), discardLogger())

	for _, name := range []string{"configuration", "store permissions", "store directory", "workspace selected", "workspace URL", "platform API"} {
		if got := resultByName(t, results, name); got.Status != cldoctor.StatusPass {
			t.Errorf("%s = %s (%s), want pass", name, got.Status, got.Message)
		}
	}
	if got := resultByName(t, results, "platform API"); !strings.Contains(got.Message, "ops@acme.example") {
		t.Errorf("platform API message %q should name the operator", got.Message)
	}
}

func TestRunChecks_RejectedToken(t *testing.T) {
	storePath := isolateEnvironment(t)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(writer).Encode(map[string]string{"code": "unauthorized", "message": "token expired"})
	}))
	defer server.Close()

	saveWorkspace(t, storePath, server.URL, "tok_stale")

	results := runChecks(context.Background(), discardLogger())

	got := resultByName(t, results, "platform API")
	if got.Status != cldoctor.StatusFail {
		t.Fatalf("platform API = %s, want fail", got.Status)
	}
	if !strings.Contains(got.Message, "altus workspace login") {
		t.Errorf("message %q should direct to login", got.Message)
	}
}

func TestRunChecks_BadWorkspaceURL(t *testing.T) {
	storePath := isolateEnvironment(t)
	saveWorkspace(t, storePath, "ftp://acme.example", "tok_live_abc123")

	results := runChecks(context.Background(), discardLogger())

	if got := resultByName(t, results, "workspace URL"); got.Status != cldoctor.StatusFail {
		t.Errorf("workspace URL = %s, want fail for ftp scheme", got.Status)
	}
	if got := resultByName(t, results, "platform API"); got.Status != cldoctor.StatusSkip {
		t.Errorf("platform API = %s, want skip after URL failure", got.Status)
	}
}

func TestStorePermissions_FixRepairsLooseMode(t *testing.T) {
	storePath := isolateEnvironment(t)
	saveWorkspace(t, storePath, "https://acme.altus.dev", "tok_live_abc123")
	if err := os.Chmod(storePath, 0644); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	results := checkStorePermissions()
	loose := resultByName(t, results, "store permissions")
	if loose.Status != cldoctor.StatusFail {
		t.Fatalf("store permissions = %s, want fail at mode 0644", loose.Status)
	}
	if !loose.HasFix() {
		t.Fatal("loose permissions should carry a fix")
	}

	outcome := cldoctor.ExecuteFixes(context.Background(), results, false)
	if outcome.FixedCount != 1 {
		t.Fatalf("FixedCount = %d, want 1", outcome.FixedCount)
	}

	info, err := os.Stat(storePath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("mode after fix = %04o, want 0600", mode)
	}
}

func TestCommand_RejectsDryRunWithoutFix(t *testing.T) {
	isolateEnvironment(t)

	command := Command()
	params := command.Params().(*doctorParams)
	params.DryRun = true

	err := command.Run(context.Background(), nil, discardLogger())
	if err == nil {
		t.Fatal("expected error for --dry-run without --fix")
	}
	if !strings.Contains(err.Error(), "--fix") {
		t.Errorf("error %q should mention --fix", err.Error())
	}
}
