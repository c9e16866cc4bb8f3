package plugins

import "testing"

func TestPaths_PushDeduplicates(t *testing.T) {
	p := NewPaths()
	p.Push("/tmp")
	p.Push("/tmp")
	if p.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", p.Size())
	}
}

func TestPaths_AddSplitsOnColon(t *testing.T) {
	p := NewPaths()
	p.Add("/tmp:/var/tmp")
	if p.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", p.Size())
	}
}

func TestPaths_Erase(t *testing.T) {
	p := NewPaths()
	p.Push("/tmp")
	p.Erase("/tmp")
	if p.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", p.Size())
	}
}

func TestPaths_AllowRedirectsDefaultsFalse(t *testing.T) {
	p := NewPaths()
	if p.AllowRedirects() {
		t.Fatal("AllowRedirects() = true, want false by default")
	}
	p.SetAllowRedirects(true)
	if !p.AllowRedirects() {
		t.Fatal("AllowRedirects() = false after SetAllowRedirects(true)")
	}
}
