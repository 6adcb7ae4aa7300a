package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("fake "+name), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"photo1.jpg",
		"photo2.JPEG",
		"notes.txt",
		"report.pdf",
		"subdir/deck.pptx",
	)

	s := New([]string{".jpg", ".jpeg", "pdf", ".pptx"}, true)
	entries, err := s.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(entries) != 4 {
		t.Fatalf("expected 4 files, got %d", len(entries))
	}

	want := []string{"photo1.jpg", "photo2.JPEG", "report.pdf", "deck.pptx"}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.Name)
		}
	}
	if entries[1].Extension != "jpeg" {
		t.Errorf("expected lowercase extension, got %q", entries[1].Extension)
	}
}

func TestScanner_Expand_Recursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "b.png", "a.docx", "skip.txt")
	single := filepath.Join(tmpDir, "single.pdf")

	s := New([]string{".png", ".docx"}, true)
	got, err := s.Expand([]string{single, tmpDir, "missing.jpg"})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	want := []string{
		single,
		filepath.Join(tmpDir, "a.docx"),
		filepath.Join(tmpDir, "b.png"),
		"missing.jpg",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScanner_Expand_NonRecursivePassesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "a.png")

	s := New([]string{".png"}, false)
	got, err := s.Expand([]string{tmpDir, tmpDir})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 2 || got[0] != tmpDir || got[1] != tmpDir {
		t.Errorf("expected directory arguments unchanged, got %v", got)
	}
}

func TestStat(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, "Photo.JPG")

	entry, err := Stat(filepath.Join(tmpDir, "Photo.JPG"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if entry.Name != "Photo.JPG" || entry.Extension != "jpg" || entry.Size == 0 {
		t.Errorf("unexpected entry: %+v", entry)
	}

	if _, err := Stat(filepath.Join(tmpDir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
