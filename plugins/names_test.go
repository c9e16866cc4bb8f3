package plugins

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNames_Validate(t *testing.T) {
	n := NewNames(NewPaths(), false)

	valid := []string{"foo", "_foo", "foo_bar", "Foo123"}
	for _, name := range valid {
		if !n.Validate(name) {
			t.Errorf("Validate(%q) = false, want true", name)
		}
	}

	invalid := []string{"", "1foo", "foo-bar", "foo.bar"}
	for _, name := range invalid {
		if n.Validate(name) {
			t.Errorf("Validate(%q) = true, want false", name)
		}
	}
}

func TestNames_Validate_ScriptReserved(t *testing.T) {
	n := NewNames(NewPaths(), true)
	if n.Validate("class") {
		t.Fatal("Validate(\"class\") = true, want false when script names are prevented")
	}

	permissive := NewNames(NewPaths(), false)
	if !permissive.Validate("class") {
		t.Fatal("Validate(\"class\") = false, want true when script names are not prevented")
	}
}

func TestNames_ToFilename_FindsLibPrefixed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "libexample.so"), []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}

	paths := NewPaths()
	paths.Push(dir)
	n := NewNames(paths, false)

	got := n.ToFilename("example")
	want := filepath.Join(dir, "libexample.so")
	if got != want {
		t.Fatalf("ToFilename() = %q, want %q", got, want)
	}
}

func TestNames_Push_RejectsReservedServerName(t *testing.T) {
	// A resolvable server.so, so the rejection comes from the reserved
	// name and not from the plugin file being absent.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "server.so"), []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}

	paths := NewPaths()
	paths.Push(dir)
	n := NewNames(paths, false)
	if err := n.Push("server"); err == nil {
		t.Fatal("Push(\"server\") did not error")
	}
}

func TestNames_Push_UnknownPluginFails(t *testing.T) {
	n := NewNames(NewPaths(), false)
	if err := n.Push("does_not_exist"); err == nil {
		t.Fatal("Push() of a nonexistent plugin did not error")
	}
}

func TestNames_Push_FromFullPath(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "libexample.so")
	if err := os.WriteFile(full, []byte{}, 0o644); err != nil {
		t.Fatal(err)
	}

	n := NewNames(NewPaths(), false)
	if err := n.Push(full); err != nil {
		t.Fatalf("Push(%q) error = %v", full, err)
	}

	names := n.Names()
	if names["example"] != full {
		t.Fatalf("Names()[\"example\"] = %q, want %q", names["example"], full)
	}
}

func TestNames_Add_CommaSeparated(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha", "beta"} {
		if err := os.WriteFile(filepath.Join(dir, name+".so"), []byte{}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths := NewPaths()
	paths.Push(dir)
	n := NewNames(paths, false)

	if err := n.Add("alpha, beta"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(n.Names()) != 2 {
		t.Fatalf("len(Names()) = %d, want 2", len(n.Names()))
	}
}

func TestNames_FindPlugins(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"output_html.so", "output_json.so", "input_csv.so"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths := NewPaths()
	paths.Push(dir)
	n := NewNames(paths, false)

	if err := n.FindPlugins("output_", ""); err != nil {
		t.Fatalf("FindPlugins() error = %v", err)
	}

	names := n.Names()
	if _, ok := names["output_html"]; !ok {
		t.Error("FindPlugins() did not pick up output_html")
	}
	if _, ok := names["output_json"]; !ok {
		t.Error("FindPlugins() did not pick up output_json")
	}
	if _, ok := names["input_csv"]; ok {
		t.Error("FindPlugins() picked up input_csv, which does not match the prefix")
	}
}
