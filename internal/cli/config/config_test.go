package config

import (
	"os"
	"path/filepath"
	"testing"
)

const shopConfig = `
tables:
  - name: order_detail
    columns: [id, order_id, product_id, quantity, unit_price]
  - name: order
    columns: [id]
  - name: product
    columns: [id, category_id]
  - name: category
    columns: [id, name]
joins:
  - master: order_detail.order_id
    detail: order.id
  - master: order_detail.product_id
    detail: product.id
  - master: product.category_id
    detail: category.id
scopes:
  - name: books
    where: [category.name=Books]
  - name: bulk
    where: [order_detail.quantity=100, order_detail.unit_price=0]
log:
  level: debug
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// No config file in the working directory: defaults apply
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level 'warn', got %s", cfg.Log.Level)
	}
	if len(cfg.Tables) != 0 || len(cfg.Joins) != 0 {
		t.Errorf("expected empty graph, got %d tables and %d joins", len(cfg.Tables), len(cfg.Joins))
	}
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	writeConfig(t, tmpDir, "sqlgraph.yaml", shopConfig)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Tables) != 4 {
		t.Fatalf("expected 4 tables, got %d", len(cfg.Tables))
	}
	if cfg.Tables[0].Name != "order_detail" || len(cfg.Tables[0].Columns) != 5 {
		t.Errorf("unexpected first table %+v", cfg.Tables[0])
	}
	if len(cfg.Joins) != 3 {
		t.Fatalf("expected 3 joins, got %d", len(cfg.Joins))
	}
	if cfg.Joins[2].Master != "product.category_id" || cfg.Joins[2].Detail != "category.id" {
		t.Errorf("unexpected join %+v", cfg.Joins[2])
	}
	if len(cfg.Scopes) != 2 || cfg.Scopes[1].Name != "bulk" || len(cfg.Scopes[1].Where) != 2 {
		t.Errorf("unexpected scopes %+v", cfg.Scopes)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "graph.yml", shopConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tables) != 4 {
		t.Errorf("expected 4 tables, got %d", len(cfg.Tables))
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "sqlgraph.yaml", shopConfig)
	t.Setenv("SQLGRAPH_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env override 'error', got %s", cfg.Log.Level)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Tables: []TableConfig{{Name: "a", Columns: []string{"id"}}, {Name: "b", Columns: []string{"a_id"}}},
				Joins:  []JoinConfig{{Master: "a.id", Detail: "b.a_id"}},
				Log:    LogConfig{Level: "info"},
			},
		},
		{
			name:    "missing table name",
			cfg:     Config{Tables: []TableConfig{{Columns: []string{"id"}}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "duplicate table",
			cfg:     Config{Tables: []TableConfig{{Name: "a"}, {Name: "a"}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "malformed join reference",
			cfg:     Config{Joins: []JoinConfig{{Master: "a", Detail: "b.id"}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name: "valid scope",
			cfg: Config{
				Scopes: []ScopeConfig{{Name: "books", Where: []string{"category.name=Books"}}},
				Log:    LogConfig{Level: "info"},
			},
		},
		{
			name:    "scope without name",
			cfg:     Config{Scopes: []ScopeConfig{{Where: []string{"a.b=1"}}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "duplicate scope",
			cfg:     Config{Scopes: []ScopeConfig{{Name: "s"}, {Name: "s"}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "malformed scope filter",
			cfg:     Config{Scopes: []ScopeConfig{{Name: "s", Where: []string{"category.name"}}}, Log: LogConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			cfg:     Config{Log: LogConfig{Level: "chatty"}},
			wantErr: true,
		},
		{
			name: "log level is case-insensitive",
			cfg:  Config{Log: LogConfig{Level: "DEBUG"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.cfg)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfigRegistry(t *testing.T) {
	cfg := &Config{Tables: []TableConfig{
		{Name: "product", Columns: []string{"id", "category_id"}},
		{Name: "category", Columns: []string{"id"}},
	}}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Count() != 2 {
		t.Errorf("expected 2 tables, got %d", reg.Count())
	}
	if _, err := reg.Column("product.category_id"); err != nil {
		t.Errorf("expected product.category_id to resolve, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		filter  string
		column  string
		value   string
		wantErr bool
	}{
		{filter: "category.name=Books", column: "category.name", value: "Books"},
		{filter: "category.name=a=b", column: "category.name", value: "a=b"},
		{filter: "category.name=", column: "category.name", value: ""},
		{filter: "category.name", wantErr: true},
		{filter: "name=Books", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			column, value, err := ParseFilter(tt.filter)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if column != tt.column || value != tt.value {
				t.Errorf("expected (%s, %s), got (%s, %s)", tt.column, tt.value, column, value)
			}
		})
	}
}
