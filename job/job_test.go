package job

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/cardsheet/binding"
	"github.com/ByLCY/cardsheet/config"
	"github.com/ByLCY/cardsheet/dsl"
	"github.com/ByLCY/cardsheet/layout"
)

const printJob = `
job Print v1 {
  vars {
    cards: "./Cards"
    out: "${env.OUT_DIR}/pdf"
  }
  front "${cards}" to "${out}/front.pdf"
  back "${cards}/back.png" to "${out}/back.pdf" { fit: cover }
  front "${cards}/long" to "${out}/front-long.pdf" {
    fit: cover; border: 2.5mm
  }
}
`

type call struct {
	Kind   string
	Input  string
	Output string
	Fit    layout.FitMode
	Border float64
}

type recordingRunner struct {
	calls []call
	fail  int
}

func (r *recordingRunner) record(kind, input, output string, cfg layout.Config) error {
	r.calls = append(r.calls, call{Kind: kind, Input: input, Output: output, Fit: cfg.Fit, Border: cfg.Border})
	if r.fail > 0 && len(r.calls) == r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *recordingRunner) Front(input, output string, cfg layout.Config) error {
	return r.record("front", input, output, cfg)
}

func (r *recordingRunner) Back(input, output string, cfg layout.Config) error {
	return r.record("back", input, output, cfg)
}

func compile(t *testing.T, src string) *Plan {
	t.Helper()
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	plan, err := Compile(doc, binding.EnvScope([]string{"OUT_DIR=/tmp/build"}))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return plan
}

func TestCompileExpandsVariables(t *testing.T) {
	plan := compile(t, printJob)
	if plan.Name != "Print" {
		t.Fatalf("unexpected name %q", plan.Name)
	}
	want := []Task{
		{Kind: KindFront, Input: "./Cards", Output: "/tmp/build/pdf/front.pdf", Line: 7},
		{Kind: KindBack, Input: "./Cards/back.png", Output: "/tmp/build/pdf/back.pdf", Line: 8,
			Overrides: []Override{{Key: "fit", Value: "cover"}}},
		{Kind: KindFront, Input: "./Cards/long", Output: "/tmp/build/pdf/front-long.pdf", Line: 9,
			Overrides: []Override{{Key: "fit", Value: "cover"}, {Key: "border", Value: "2.5mm"}}},
	}
	if diff := cmp.Diff(want, plan.Tasks); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"undefined var": `job J v1 { front "${nope}" to "out.pdf" }`,
		"undefined env": `job J v1 { front "in" to "${env.MISSING}/out.pdf" }`,
		"reserved env":  `job J v1 { vars { env: "x" } front "in" to "out.pdf" }`,
		"no tasks":      `job J v1 { vars { a: "b" } }`,
		"empty input":   `job J v1 { front "" to "out.pdf" }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := dsl.ParseString(src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := Compile(doc, map[string]any{}); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}

func TestRunAppliesOverrides(t *testing.T) {
	plan := compile(t, printJob)
	r := &recordingRunner{}
	if err := plan.Run(r, config.Default(), nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := []call{
		{Kind: "front", Input: "./Cards", Output: "/tmp/build/pdf/front.pdf", Fit: layout.FitStretch, Border: 2},
		{Kind: "back", Input: "./Cards/back.png", Output: "/tmp/build/pdf/back.pdf", Fit: layout.FitCover, Border: 0},
		{Kind: "front", Input: "./Cards/long", Output: "/tmp/build/pdf/front-long.pdf", Fit: layout.FitCover, Border: 2.5},
	}
	if diff := cmp.Diff(want, r.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDoesNotMutateProfile(t *testing.T) {
	plan := compile(t, printJob)
	profile := config.Default()
	if err := plan.Run(&recordingRunner{}, profile, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if diff := cmp.Diff(config.Default(), profile); diff != "" {
		t.Fatalf("profile mutated (-want +got):\n%s", diff)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	plan := compile(t, printJob)
	r := &recordingRunner{fail: 2}
	if err := plan.Run(r, config.Default(), nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected run to stop after 2 calls, got %d", len(r.calls))
	}
}

func TestRunRejectsBadOverride(t *testing.T) {
	plan := compile(t, `job J v1 { back "b.png" to "out.pdf" { border: 2mm } }`)
	r := &recordingRunner{}
	if err := plan.Run(r, config.Default(), nil); err == nil {
		t.Fatalf("back border override should be rejected")
	}
	if len(r.calls) != 0 {
		t.Fatalf("runner should not be called")
	}

	plan = compile(t, `job J v1 { front "cards" to "out.pdf" { colour: red } }`)
	if err := plan.Run(r, config.Default(), nil); err == nil {
		t.Fatalf("unknown key should be rejected")
	}
}

func TestLoadRebasesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "print.job")
	src := `job Print v1 {
  front "Cards" to "pdf/front.pdf"
  back "/abs/back.png" to "pdf/back.pdf"
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	plan, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got, want := plan.Tasks[0].Input, filepath.Join(dir, "Cards"); got != want {
		t.Fatalf("input = %q, want %q", got, want)
	}
	if got, want := plan.Tasks[0].Output, filepath.Join(dir, "pdf", "front.pdf"); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := plan.Tasks[1].Input; got != "/abs/back.png" {
		t.Fatalf("absolute input rewritten: %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.job"), nil); err == nil {
		t.Fatalf("missing job file should fail")
	}
}
