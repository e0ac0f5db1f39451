package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/ivlev/pic2ascii/internal/errors"
)

func TestPromptPositiveInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"valid answer", "12\n", 12, false},
		{"empty answer keeps default", "\n", 8, false},
		{"closed input keeps default", "", 8, false},
		{"answer without newline", "5", 5, false},
		{"surrounding spaces", "  6 \n", 6, false},
		{"retry after bad answers", "abc\n-3\n4\n", 4, false},
		{"gives up after three bad answers", "a\nb\n0\n7\n", 0, true},
		{"input ends after bad answer", "x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptPositiveInt(bufio.NewReader(strings.NewReader(tt.input)), &out, "Block width", 8)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Fatalf("expected INVALID_INPUT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("promptPositiveInt failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("promptPositiveInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPromptShowsDefault(t *testing.T) {
	var out bytes.Buffer
	if _, err := promptPositiveInt(bufio.NewReader(strings.NewReader("\n")), &out, "Block height", 16); err != nil {
		t.Fatalf("promptPositiveInt failed: %v", err)
	}
	if !strings.Contains(out.String(), "Block height") || !strings.Contains(out.String(), "[16]") {
		t.Errorf("prompt %q does not show label and default", out.String())
	}
}

func TestWaitForEnter(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("\nrest"))
	waitForEnter(r, &out)

	if !strings.Contains(out.String(), "Press Enter") {
		t.Errorf("missing pause message in %q", out.String())
	}
	rest, _ := r.ReadString('\n')
	if rest != "rest" {
		t.Errorf("waitForEnter consumed more than one line, left %q", rest)
	}
}
