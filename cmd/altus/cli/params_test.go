// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string        `flag:"name" desc:"the name"`
		Force    bool          `flag:"force,f" desc:"skip confirmation"`
		Count    int           `flag:"count" desc:"number of items"`
		Offset   int64         `flag:"offset" desc:"byte offset"`
		Rate     float64       `flag:"rate" desc:"sampling rate"`
		Timeout  time.Duration `flag:"timeout" desc:"request timeout"`
		Tags     []string      `flag:"tags" desc:"tag list"`
		Untagged string        // no flag tag — should be skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{
		"--name", "api-server",
		"-f",
		"--count", "42",
		"--offset", "1099511627776",
		"--rate", "0.95",
		"--timeout", "30s",
		"--tags", "a,b,c",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "api-server" {
		t.Errorf("Name = %q, want %q", p.Name, "api-server")
	}
	if !p.Force {
		t.Error("Force = false, want true")
	}
	if p.Count != 42 {
		t.Errorf("Count = %d, want 42", p.Count)
	}
	if p.Offset != 1099511627776 {
		t.Errorf("Offset = %d, want 1099511627776", p.Offset)
	}
	if p.Rate != 0.95 {
		t.Errorf("Rate = %f, want 0.95", p.Rate)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
	if len(p.Tags) != 3 || p.Tags[0] != "a" || p.Tags[1] != "b" || p.Tags[2] != "c" {
		t.Errorf("Tags = %v, want [a b c]", p.Tags)
	}
	if p.Untagged != "" {
		t.Errorf("Untagged = %q, want empty (should be skipped)", p.Untagged)
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		URL      string        `flag:"url" desc:"workspace URL" default:"https://altus.dev"`
		Limit    int           `flag:"limit" desc:"result limit" default:"20"`
		Offset   int64         `flag:"offset" desc:"byte offset" default:"100"`
		Rate     float64       `flag:"rate" desc:"rate" default:"0.5"`
		Interval time.Duration `flag:"interval" desc:"poll interval" default:"2s"`
		Seal     bool          `flag:"seal" desc:"seal client-side" default:"true"`
		Tags     []string      `flag:"tags" desc:"tags" default:"x,y"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	// Parse with no arguments — should get all defaults.
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.URL != "https://altus.dev" {
		t.Errorf("URL = %q, want %q", p.URL, "https://altus.dev")
	}
	if p.Limit != 20 {
		t.Errorf("Limit = %d, want 20", p.Limit)
	}
	if p.Offset != 100 {
		t.Errorf("Offset = %d, want 100", p.Offset)
	}
	if p.Rate != 0.5 {
		t.Errorf("Rate = %f, want 0.5", p.Rate)
	}
	if p.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", p.Interval)
	}
	if !p.Seal {
		t.Error("Seal = false, want true")
	}
	if len(p.Tags) != 2 || p.Tags[0] != "x" || p.Tags[1] != "y" {
		t.Errorf("Tags = %v, want [x y]", p.Tags)
	}
}

func TestBindFlags_DefaultsOverriddenByCLI(t *testing.T) {
	type params struct {
		URL   string `flag:"url" desc:"workspace URL" default:"https://altus.dev"`
		Limit int    `flag:"limit" desc:"result limit" default:"20"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--url", "https://acme.altus.dev", "--limit", "5"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.URL != "https://acme.altus.dev" {
		t.Errorf("URL = %q, want %q", p.URL, "https://acme.altus.dev")
	}
	if p.Limit != 5 {
		t.Errorf("Limit = %d, want 5", p.Limit)
	}
}

func TestBindFlags_PreSeededValueIsDefault(t *testing.T) {
	// Without a default tag, the field's current value survives
	// binding. The tree builder relies on this to seed --json from the
	// configuration's output.format before flags are parsed.
	type params struct {
		JSONOutput
		Region string `flag:"region" desc:"region"`
	}

	p := params{Region: "eu-west"}
	p.SetJSONOutput(true)

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false, want seeded true to survive binding")
	}
	if p.Region != "eu-west" {
		t.Errorf("Region = %q, want pre-seeded %q", p.Region, "eu-west")
	}

	// An explicit flag still overrides the seeded value.
	flagSet = pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json=false"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.OutputJSON {
		t.Error("OutputJSON = true, want --json=false to override the seed")
	}
}

// testEndpointBinder implements FlagBinder for testing. Named and
// embedded fields use this to verify that BindFlags calls AddFlags
// instead of reflecting tags. Exported methods on a pointer receiver,
// so the field itself can stay addressable.
type testEndpointBinder struct {
	URL     string
	Timeout int
}

func (b *testEndpointBinder) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&b.URL, "url", "", "endpoint URL")
	flagSet.IntVar(&b.Timeout, "timeout", 0, "timeout seconds")
}

func TestBindFlags_NamedFlagBinder(t *testing.T) {
	type params struct {
		Endpoint testEndpointBinder
		Extra    string `flag:"extra" desc:"extra flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--url", "https://altus.dev", "--timeout", "7", "--extra", "world"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Endpoint.URL != "https://altus.dev" {
		t.Errorf("Endpoint.URL = %q, want %q", p.Endpoint.URL, "https://altus.dev")
	}
	if p.Endpoint.Timeout != 7 {
		t.Errorf("Endpoint.Timeout = %d, want 7", p.Endpoint.Timeout)
	}
	if p.Extra != "world" {
		t.Errorf("Extra = %q, want %q", p.Extra, "world")
	}
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	type inner struct {
		Foo string `flag:"foo" desc:"foo flag"`
		Bar int    `flag:"bar" desc:"bar flag"`
	}
	type params struct {
		inner
		Baz bool `flag:"baz" desc:"baz flag"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--foo", "hello", "--bar", "5", "--baz"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Foo != "hello" {
		t.Errorf("Foo = %q, want %q", p.Foo, "hello")
	}
	if p.Bar != 5 {
		t.Errorf("Bar = %d, want 5", p.Bar)
	}
	if !p.Baz {
		t.Error("Baz = false, want true")
	}
}

func TestBindFlags_JSONOutputEmbedding(t *testing.T) {
	type params struct {
		JSONOutput
		Name string `flag:"name" desc:"name"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if flagSet.Lookup("json") == nil {
		t.Fatal("expected --json from embedded JSONOutput")
	}
	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false after --json")
	}
}

func TestBindFlags_Shorthand(t *testing.T) {
	type params struct {
		Output string `flag:"output,o" desc:"output path"`
		Force  bool   `flag:"force,f" desc:"force mode"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"-o", "/tmp/out", "-f"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Output != "/tmp/out" {
		t.Errorf("Output = %q, want %q", p.Output, "/tmp/out")
	}
	if !p.Force {
		t.Error("Force = false, want true")
	}
}

func TestBindFlags_ErrorNotPointer(t *testing.T) {
	type params struct {
		Name string `flag:"name"`
	}
	var p params
	err := BindFlags(p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for non-pointer, got nil")
	}
	if want := "params must be a pointer to a struct"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err.Error(), want)
	}
}

func TestBindFlags_ErrorNotStruct(t *testing.T) {
	s := "not a struct"
	err := BindFlags(&s, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for non-struct, got nil")
	}
}

func TestBindFlags_ErrorBadDefault(t *testing.T) {
	type params struct {
		Count int `flag:"count" default:"not_a_number"`
	}
	var p params
	err := BindFlags(&p, pflag.NewFlagSet("test", pflag.ContinueOnError))
	if err == nil {
		t.Fatal("expected error for bad default, got nil")
	}
}

func TestFlagsFromParams(t *testing.T) {
	type params struct {
		Name string `flag:"name" desc:"the name" default:"world"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)

	if err := flagSet.Parse([]string{"--name", "altus"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "altus" {
		t.Errorf("Name = %q, want %q", p.Name, "altus")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil input, got none")
		}
	}()
	FlagsFromParams("test", nil)
}

func TestBindFlags_PositionalArgsRemain(t *testing.T) {
	type params struct {
		Format string `flag:"format" desc:"output format" default:"table"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	if err := flagSet.Parse([]string{"--format", "json", "positional-arg"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	remaining := flagSet.Args()
	if len(remaining) != 1 || remaining[0] != "positional-arg" {
		t.Errorf("remaining args = %v, want [positional-arg]", remaining)
	}
	if p.Format != "json" {
		t.Errorf("Format = %q, want %q", p.Format, "json")
	}
}
