package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/cardsheet/sheet"
)

// lowResProfile 降低 DPI 以加快测试。
const lowResProfile = "dpi: 20\n"

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 15), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func setup(t *testing.T, cards int) (dir, profile string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Cards"), 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= cards; i++ {
		writePNG(t, filepath.Join(dir, "Cards", fmt.Sprintf("card%d.png", i)))
	}
	writePNG(t, filepath.Join(dir, "back.png"))
	profile = filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(profile, []byte(lowResProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, profile
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("%s is not a PDF", path)
	}
}

func TestFrontAndBackCommands(t *testing.T) {
	dir, profile := setup(t, 10)
	front := filepath.Join(dir, "pdf", "front.pdf")
	back := filepath.Join(dir, "pdf", "back.pdf")
	debug := filepath.Join(dir, "debug", "front.json")

	if _, err := execute(t, "front", filepath.Join(dir, "Cards"), front, "-c", profile, "-q", "--debug", debug); err != nil {
		t.Fatalf("front failed: %v", err)
	}
	assertPDF(t, front)
	if _, err := os.Stat(debug); err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}

	if _, err := execute(t, "back", filepath.Join(dir, "back.png"), back, "--config", profile, "--quiet"); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	assertPDF(t, back)
}

func TestFrontCommandErrors(t *testing.T) {
	dir, profile := setup(t, 0)
	out := filepath.Join(dir, "pdf", "front.pdf")

	_, err := execute(t, "front", filepath.Join(dir, "Cards"), out, "-c", profile, "-q")
	if !errors.Is(err, sheet.ErrInvalidInput) {
		t.Fatalf("empty directory: got %v, want ErrInvalidInput", err)
	}
	if _, statErr := os.Stat(filepath.Dir(out)); !os.IsNotExist(statErr) {
		t.Fatalf("output directory should not be created")
	}

	if _, err := execute(t, "front", filepath.Join(dir, "Cards")); err == nil {
		t.Fatalf("missing output argument should fail")
	}
	if _, err := execute(t, "front", filepath.Join(dir, "Cards"), out, "-c", filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatalf("missing profile should fail")
	}
	if _, err := execute(t, "front", filepath.Join(dir, "Cards"), out, "-v", "-q"); err == nil {
		t.Fatalf("--verbose and --quiet together should fail")
	}
}

func TestRunCommand(t *testing.T) {
	dir, profile := setup(t, 4)
	jobFile := filepath.Join(dir, "print.job")
	src := `job Print v1 {
  vars { cards: "Cards" }
  front "${cards}" to "pdf/${env.CARDSHEET_SUFFIX}front.pdf"
  back "back.png" to "pdf/back.pdf"
  back "${cards}" to "pdf/backs.pdf" { fit: stretch }
}
`
	if err := os.WriteFile(jobFile, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CARDSHEET_SUFFIX", "test-")

	out, err := execute(t, "run", jobFile, "--dry-run", "-c", profile)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.Contains(out, filepath.Join(dir, "pdf", "test-front.pdf")) {
		t.Fatalf("dry run output missing expanded path:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "pdf")); !os.IsNotExist(err) {
		t.Fatalf("dry run should not write anything")
	}

	debugDir := filepath.Join(dir, "debug")
	if _, err := execute(t, "run", jobFile, "-c", profile, "-q", "--debug", debugDir); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, name := range []string{"test-front.pdf", "back.pdf", "backs.pdf"} {
		assertPDF(t, filepath.Join(dir, "pdf", name))
	}
	for _, name := range []string{"test-front.json", "back.json", "backs.json"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Fatalf("debug JSON %s missing: %v", name, err)
		}
	}
}

func TestRunCommandUndefinedVariable(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "bad.job")
	if err := os.WriteFile(jobFile, []byte(`job Bad v1 { front "${missing}" to "out.pdf" }`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "run", jobFile); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
}
