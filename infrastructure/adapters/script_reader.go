package adapters

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/domain"
)

type scriptReader struct{}

func NewScriptReader() outbound.ScriptReaderPort {
	return &scriptReader{}
}

// Read loads a .txt, .docx or .pdf script and returns its trimmed text.
func (r *scriptReader) Read(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return readPlainText(path)
	case ".docx":
		return readDocx(path)
	case ".pdf":
		return readPdf(path)
	default:
		return "", &domain.InputError{Path: path, Reason: "unsupported file format, expected .txt, .docx or .pdf"}
	}
}

func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &domain.InputError{Path: path, Reason: err.Error()}
	}
	return strings.TrimSpace(string(data)), nil
}

// readDocx extracts paragraph text from word/document.xml inside the
// docx container.
func readDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", &domain.InputError{Path: path, Reason: "not a readable docx file: " + err.Error()}
	}
	defer archive.Close()

	var document io.ReadCloser
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document, err = file.Open()
			if err != nil {
				return "", &domain.InputError{Path: path, Reason: err.Error()}
			}
			break
		}
	}
	if document == nil {
		return "", &domain.InputError{Path: path, Reason: "docx container has no word/document.xml"}
	}
	defer document.Close()

	var paragraphs []string
	var current strings.Builder
	decoder := xml.NewDecoder(document)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &domain.InputError{Path: path, Reason: "malformed docx document: " + err.Error()}
		}
		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				var text string
				if err := decoder.DecodeElement(&text, &element); err != nil {
					return "", &domain.InputError{Path: path, Reason: err.Error()}
				}
				current.WriteString(text)
			}
		case xml.EndElement:
			if element.Name.Local == "p" {
				if paragraph := strings.TrimSpace(current.String()); paragraph != "" {
					paragraphs = append(paragraphs, paragraph)
				}
				current.Reset()
			}
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

func readPdf(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", &domain.InputError{Path: path, Reason: "not a readable pdf file: " + err.Error()}
	}
	defer file.Close()

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", &domain.InputError{Path: path, Reason: err.Error()}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", &domain.InputError{Path: path, Reason: err.Error()}
	}
	return strings.TrimSpace(buf.String()), nil
}
