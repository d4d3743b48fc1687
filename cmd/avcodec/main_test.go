package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/avcodec/codec"
	"github.com/wippyai/avcodec/schema"
)

const testSchema = `id: string
n: integer
tags: {set: string}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(testSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRoundTrip(t *testing.T) {
	schemaPath := writeSchema(t)
	plain := `{"id":"a","n":1,"tags":["x","y"]}
{"id":"b","n":null}
`

	var tagged bytes.Buffer
	err := run([]string{"serialize", "--schema", schemaPath, "--batch", "1"}, strings.NewReader(plain), &tagged)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(tagged.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %s", len(lines), tagged.String())
	}
	if !strings.Contains(lines[0], `"N":"1"`) || !strings.Contains(lines[1], `"NULL":true`) {
		t.Errorf("tagged output:\n%s", tagged.String())
	}

	var back bytes.Buffer
	err = run([]string{"deserialize", "-s", schemaPath}, &tagged, &back)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(back.String(), `"tags":["x","y"]`) || !strings.Contains(back.String(), `"n":null`) {
		t.Errorf("plain output:\n%s", back.String())
	}
}

func TestRunExportEnvelope(t *testing.T) {
	schemaPath := writeSchema(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	if err := os.WriteFile(in, []byte(`{"Item":{"id":{"S":"a"},"n":{"N":"7"}}}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"deserialize", "--schema", schemaPath, "--export", "--in", in, "--out", out}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"n":7`) {
		t.Errorf("output = %s", got)
	}

	var wrapped bytes.Buffer
	err = run([]string{"serialize", "--schema", schemaPath, "--export", "--in", out}, nil, &wrapped)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(wrapped.String(), `{"Item":`) {
		t.Errorf("export output = %s", wrapped.String())
	}
}

func TestRunErrors(t *testing.T) {
	schemaPath := writeSchema(t)
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"no_command", []string{"--schema", schemaPath}, "", "expected one command"},
		{"no_schema", []string{"serialize"}, "", "--schema"},
		{"unknown_command", []string{"frobnicate", "--schema", schemaPath}, "", "unknown command"},
		{"bad_record", []string{"deserialize", "--schema", schemaPath}, `{"n":{"S":"1"}}` + "\n", "records 0-0"},
		{"preview_without_input", []string{"preview", "--schema", schemaPath}, "", "--in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, strings.NewReader(tt.input), &out)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRunSchema(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"schema", "--schema", writeSchema(t), "--shapes"}, nil, &out); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "id: string\nn: integer\n") {
		t.Errorf("field order lost:\n%s", s)
	}
	if !strings.Contains(s, "# plain") || !strings.Contains(s, "# tagged") || !strings.Contains(s, "# 5 nodes, depth 2") {
		t.Errorf("shapes missing:\n%s", s)
	}
}

func TestPreviewModel(t *testing.T) {
	root := schema.MustStruct(schema.F("id", schema.String()))
	m := newPreviewModel(codec.NewWithDefaults(), root, options{in: "records.json"})

	if !strings.Contains(m.View(), "Loading") {
		t.Error("expected loading view")
	}

	m.Update(loadedMsg{
		plain:  []codec.Record{{"id": "a"}, {"id": "b"}},
		tagged: []codec.Record{{"id": map[string]any{"S": "a"}}, {"id": map[string]any{"S": "b"}}},
	})
	if v := m.View(); !strings.Contains(v, "Record 1 of 2") || !strings.Contains(v, `"S":"a"`) {
		t.Errorf("view:\n%s", v)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected = %d, want clamp at 1", m.selected)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m.selected != 0 {
		t.Errorf("g did not jump to first record")
	}
}
