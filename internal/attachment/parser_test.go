package attachment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{
		"resume.PDF":        "pdf",
		"cover letter.docx": "docx",
		"notes":             "",
		"dir/cv.txt":        "txt",
	} {
		if got := Kind(name); got != want {
			t.Errorf("Kind(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestExtractTextPlain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cv.txt"), []byte("  Go, SQL, Kubernetes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewParser(dir)
	got, err := p.ExtractText("cv.txt")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Go, SQL, Kubernetes" {
		t.Fatalf("unexpected text %q", got)
	}

	abs, err := NewParser("/nonexistent").ExtractText(filepath.Join(dir, "cv.txt"))
	if err != nil || abs != got {
		t.Fatalf("absolute paths should ignore the uploads dir: %q %v", abs, err)
	}
}

func TestExtractTextErrors(t *testing.T) {
	t.Parallel()

	p := NewParser(t.TempDir())
	if _, err := p.ExtractText("missing.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := p.ExtractText("image.png"); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
