// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace persists the operator's workspace credentials.
//
// The store is a JSON file holding every logged-in workspace (URL,
// token, optional sealing key) plus the name of the current one.
// Commands resolve their API endpoint and auth token through
// [Store.CurrentWorkspace]; when nothing is logged in, the returned
// error tells the user to run "altus workspace login" first.
//
// The file lives at $ALTUS_WORKSPACES_FILE if set, otherwise
// <config dir>/workspaces.json where the config dir honors
// $ALTUS_CONFIG_DIR and $XDG_CONFIG_HOME before falling back to
// ~/.config/altus. It is written with mode 0600 inside a 0700
// directory since it contains access tokens.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/altus-cloud/altus/lib/config"
)

// Workspace holds the stored credentials for one platform workspace.
type Workspace struct {
	// URL is the workspace's API base URL (e.g. "https://acme.altus.dev").
	URL string `json:"url"`

	// Token is the access token proving the operator's identity.
	Token string `json:"token"`

	// SealingKey is the workspace's public age recipient for
	// client-side secret sealing, when the workspace publishes one.
	SealingKey string `json:"sealing_key,omitempty"`

	// LoggedInAt records when the token was verified and saved.
	LoggedInAt time.Time `json:"logged_in_at"`
}

// Store is the on-disk registry of logged-in workspaces.
type Store struct {
	// Current names the workspace commands operate on by default.
	Current string `json:"current,omitempty"`

	// Workspaces maps workspace name to its stored credentials.
	Workspaces map[string]*Workspace `json:"workspaces"`
}

// FilePath returns the workspace store path. $ALTUS_WORKSPACES_FILE
// overrides the default <config dir>/workspaces.json.
func FilePath() string {
	if envPath := os.Getenv("ALTUS_WORKSPACES_FILE"); envPath != "" {
		return envPath
	}
	return filepath.Join(config.Dir(), "workspaces.json")
}

// Load reads the store from the well-known path. A missing file is not
// an error: it yields an empty store, and credential resolution on an
// empty store produces the login-guidance error.
func Load() (*Store, error) {
	return LoadFrom(FilePath())
}

// LoadFrom reads a store from a specific file path.
func LoadFrom(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{Workspaces: map[string]*Workspace{}}, nil
		}
		return nil, fmt.Errorf("reading workspace store %s: %w", path, err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parsing workspace store %s: %w", path, err)
	}
	if store.Workspaces == nil {
		store.Workspaces = map[string]*Workspace{}
	}
	return &store, nil
}

// Save writes the store to the well-known path.
func Save(store *Store) error {
	return SaveTo(store, FilePath())
}

// SaveTo writes the store to a specific file path, creating the parent
// directory with mode 0700. The file is written 0600 since it contains
// access tokens.
func SaveTo(store *Store, path string) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling workspace store: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", directory, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing workspace store %s: %w", path, err)
	}
	return nil
}

// CurrentWorkspace resolves the current workspace's credentials. This
// is the single path by which commands obtain a workspace URL and auth
// token; any form of absence (no store, no current selection, missing
// entry, blank URL or token) yields an error directing the user to
// log in.
func (s *Store) CurrentWorkspace() (string, *Workspace, error) {
	if s.Current == "" {
		return "", nil, fmt.Errorf("no workspace found: run \"altus workspace login\" first")
	}
	ws, ok := s.Workspaces[s.Current]
	if !ok {
		return "", nil, fmt.Errorf("current workspace %q is not in the store: run \"altus workspace login\" again", s.Current)
	}
	if ws.URL == "" {
		return "", nil, fmt.Errorf("workspace %q has no URL: run \"altus workspace login\" again", s.Current)
	}
	if ws.Token == "" {
		return "", nil, fmt.Errorf("workspace %q has no token: run \"altus workspace login\" again", s.Current)
	}
	return s.Current, ws, nil
}

// Add inserts or replaces a workspace entry and makes it current.
func (s *Store) Add(name string, ws *Workspace) {
	if s.Workspaces == nil {
		s.Workspaces = map[string]*Workspace{}
	}
	s.Workspaces[name] = ws
	s.Current = name
}

// Remove drops a workspace entry. Removing the current workspace
// clears the current selection.
func (s *Store) Remove(name string) error {
	if _, ok := s.Workspaces[name]; !ok {
		return fmt.Errorf("workspace %q is not logged in", name)
	}
	delete(s.Workspaces, name)
	if s.Current == name {
		s.Current = ""
	}
	return nil
}

// Use switches the current workspace to an already-stored entry.
func (s *Store) Use(name string) error {
	if _, ok := s.Workspaces[name]; !ok {
		return fmt.Errorf("workspace %q is not logged in (logged in: %v)", name, s.Names())
	}
	s.Current = name
	return nil
}

// Names returns the stored workspace names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.Workspaces))
	for name := range s.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
