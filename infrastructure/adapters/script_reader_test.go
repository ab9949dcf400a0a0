package adapters

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shakedma/avatar-pipeline/domain"
)

func TestReadPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("  Hello world, this is a test.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := NewScriptReader().Read(path)
	if err != nil {
		t.Fatal("Read:", err)
	}
	if text != "Hello world, this is a test." {
		t.Errorf("text = %q", text)
	}
}

func TestReadDocxParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.docx")
	writeTestDocx(t, path, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := NewScriptReader().Read(path)
	if err != nil {
		t.Fatal("Read:", err)
	}
	if text != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("text = %q", text)
	}
}

func TestReadRejectsUnsupportedFormat(t *testing.T) {
	_, err := NewScriptReader().Read("script.odt")

	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewScriptReader().Read(filepath.Join(t.TempDir(), "missing.txt"))

	var inputErr *domain.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
}

func writeTestDocx(t *testing.T, path, documentXML string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
}
