package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatError(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "table not found",
				Problem: "Cannot find table 'prodcut'.",
			},
			contains: []string{"❌", "TABLE NOT FOUND", "Cannot find table 'prodcut'."},
			excludes: []string{"Did you mean"},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Problem:     "Cannot find table 'prodcut'.",
				Suggestions: []string{"product", "products"},
			},
			contains: []string{"Did you mean: product, products?"},
		},
		{
			name: "warning with consequence and help",
			opts: ErrorOptions{
				Level:        ErrorLevelWarning,
				Problem:      "Join replaced.",
				Consequence:  "The earlier condition is no longer used.",
				HelpCommands: []string{"See registered joins: sqlgraph relations"},
			},
			contains: []string{"⚠️", "Join replaced.", "The earlier condition", "→ See registered joins"},
		},
		{
			name:     "info",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "Nothing to do."},
			contains: []string{"ℹ️", "Nothing to do."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, result)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(result, unwanted) {
					t.Errorf("expected output not to contain %q, got:\n%s", unwanted, result)
				}
			}
		})
	}
}

func TestFormatErrorNoColorOption(t *testing.T) {
	result := FormatError(ErrorOptions{Problem: "plain", NoColor: true})
	if strings.Contains(result, "\x1b[") {
		t.Errorf("expected no escape sequences, got %q", result)
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected written error, got %q", buf.String())
	}
}

func TestFormatSuccess(t *testing.T) {
	if got := FormatSuccess("done", true); got != "✓ done" {
		t.Errorf("expected '✓ done', got %q", got)
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		result   string
		contains []string
	}{
		{
			name:     "table not found",
			result:   TableNotFoundError("prodcut", []string{"product"}, true),
			contains: []string{"TABLE NOT FOUND", "'prodcut'", "Did you mean: product?", "sqlgraph relations"},
		},
		{
			name:     "no join path",
			result:   NoJoinPathError("category", "order_detail", true),
			contains: []string{"NO JOIN PATH", "'category' to 'order_detail'", "master to detail"},
		},
		{
			name:     "config",
			result:   ConfigError("joins[0].master: bad reference", true),
			contains: []string{"CONFIGURATION ERROR", "joins[0].master", "sqlgraph --help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(tt.result, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, tt.result)
				}
			}
		})
	}
}
