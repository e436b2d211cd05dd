package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()
	if !p.Hints.Visible {
		t.Error("expected hints visible by default")
	}
	if p.Picture.LastDir != "" {
		t.Errorf("expected no last picture dir, got %q", p.Picture.LastDir)
	}
}

func TestLoadMissing(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "nope"))
	if !p.Hints.Visible {
		t.Error("expected defaults for missing file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".libreg")

	p := Default()
	p.Hints.Visible = false
	p.RememberPicture("/home/me/pictures/logo.png")

	if err := Save(dir, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("preferences file not written: %v", err)
	}

	loaded := Load(dir)
	if loaded.Hints.Visible {
		t.Error("expected hints hidden after reload")
	}
	if loaded.Picture.LastDir != "/home/me/pictures" {
		t.Errorf("LastDir = %q", loaded.Picture.LastDir)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Load(dir).Hints.Visible {
		t.Error("expected defaults for corrupt file")
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte(`{"picture":{"last_dir":"/srv"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	p := Load(dir)
	if !p.Hints.Visible {
		t.Error("missing hints section should keep default")
	}
	if p.Picture.LastDir != "/srv" {
		t.Errorf("LastDir = %q", p.Picture.LastDir)
	}
}

func TestRememberPictureIgnoresEmpty(t *testing.T) {
	p := Default()
	p.Picture.LastDir = "/keep"
	p.RememberPicture("")
	if p.Picture.LastDir != "/keep" {
		t.Errorf("LastDir = %q", p.Picture.LastDir)
	}
}
