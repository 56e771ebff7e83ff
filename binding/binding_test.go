package binding

import (
	"errors"
	"testing"
)

func TestExpand(t *testing.T) {
	scope := Scope{
		"cards": "./Cards",
		"n":     3,
		"env":   EnvScope([]string{"HOME=/home/me", "EMPTY=", "BROKEN"}),
		"out":   map[string]string{"dir": "./pdf"},
	}
	cases := map[string]string{
		"${cards}/long":          "./Cards/long",
		"${ out.dir }/front.pdf": "./pdf/front.pdf",
		"${env.HOME}/x":          "/home/me/x",
		"[${env.EMPTY}]":         "[]",
		"no placeholders":        "no placeholders",
		"${n}-${cards}":          "3-./Cards",
	}
	for in, want := range cases {
		got, err := Expand(in, scope)
		if err != nil {
			t.Fatalf("Expand(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandUndefined(t *testing.T) {
	scope := Scope{"env": EnvScope(nil), "out": map[string]string{"dir": "x"}}
	for _, in := range []string{"${missing}", "${env.NOPE}", "${out}", "${}", "${out.dir.more}"} {
		_, err := Expand(in, scope)
		var undef *UndefinedError
		if !errors.As(err, &undef) {
			t.Fatalf("Expand(%q) 期望 UndefinedError，实际 %v", in, err)
		}
	}
}
