package rel

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type (
	// Table is the schema a relational domain resolves columns against.
	Table struct {
		Name    string      `yaml:"name"`
		Columns []ColumnDef `yaml:"columns"`
		cols    map[string]*ColumnDef
	}
	// ColumnDef declares one column. JSON columns accept dotted paths
	// into their content; Array columns support has and hasNot.
	ColumnDef struct {
		Name  string `yaml:"name"`
		Type  string `yaml:"type"`
		JSON  bool   `yaml:"json,omitempty"`
		Array bool   `yaml:"array,omitempty"`
	}

	tableFile struct {
		Tables []*Table `yaml:"tables"`
	}
)

func NewTable(name string, cols ...ColumnDef) *Table {
	t := &Table{Name: name, Columns: cols}
	t.index()
	return t
}

func (m *Table) index() {
	m.cols = make(map[string]*ColumnDef, len(m.Columns))
	for i := range m.Columns {
		m.cols[m.Columns[i].Name] = &m.Columns[i]
	}
}

// Column looks up a column definition by name.
func (m *Table) Column(name string) (*ColumnDef, bool) {
	if m.cols == nil {
		for i := range m.Columns {
			if m.Columns[i].Name == name {
				return &m.Columns[i], true
			}
		}
		return nil, false
	}
	c, ok := m.cols[name]
	return c, ok
}

// LoadTables reads table definitions from yaml:
//
//	tables:
//	  - name: actions
//	    columns:
//	      - {name: action_id, type: text}
//	      - {name: data, type: jsonb, json: true}
//
// Unknown keys are rejected.
func LoadTables(r io.Reader) ([]*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse tables: %w", err)
	}
	seen := make(map[string]bool, len(f.Tables))
	for _, t := range f.Tables {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate table %q", t.Name)
		}
		seen[t.Name] = true
		t.index()
	}
	return f.Tables, nil
}

func (m *Table) validate() error {
	if m.Name == "" {
		return errors.New("table name is required")
	}
	seen := make(map[string]bool, len(m.Columns))
	for _, c := range m.Columns {
		if c.Name == "" {
			return fmt.Errorf("table %q: column name is required", m.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %q: duplicate column %q", m.Name, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
