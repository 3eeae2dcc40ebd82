package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Status classifies an extraction outcome.
type Status int

const (
	// StatusOK means usable text was extracted.
	StatusOK Status = iota
	// StatusEmpty means the document parsed cleanly but contained no text.
	StatusEmpty
	// StatusFailed means the parser or OCR engine reported an error.
	StatusFailed
	// StatusUnsupported means the file extension is not handled.
	StatusUnsupported
)

// Result is the outcome of one extraction. Downstream code branches on
// Status; Message renders the human-readable form stored in error records.
type Result struct {
	Status Status
	Kind   string
	Text   string
	Reason string
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Message renders the result for persisted records and API responses.
func (r Result) Message() string {
	switch r.Status {
	case StatusUnsupported:
		return "Unsupported file format"
	case StatusFailed:
		return fmt.Sprintf("Error processing %s: %s", r.Kind, r.Reason)
	case StatusEmpty:
		return fmt.Sprintf("No text extracted from %s", r.Kind)
	default:
		return r.Text
	}
}

// Extractor pulls plain text out of uploaded resume files. PDF and DOCX are
// parsed in-process; images are delegated to the OCR engine.
type Extractor struct {
	OCR OCR
}

// FromFile dispatches on the file extension and extracts text.
func (e *Extractor) FromFile(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusFailed, Kind: "file", Reason: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.fromPDF(path)
	case ".png", ".jpg", ".jpeg":
		return e.fromImage(ctx, path)
	case ".docx":
		return e.fromDOCX(path)
	default:
		return Result{Status: StatusUnsupported}
	}
}

func (e *Extractor) fromPDF(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failed("PDF", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failed("PDF", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return failed("PDF", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return failed("PDF", err)
	}
	return classify("PDF", buf.String())
}

func (e *Extractor) fromImage(ctx context.Context, path string) Result {
	if e.OCR == nil {
		return failed("image", errors.New("no OCR engine configured"))
	}
	text, err := e.OCR.ImageToText(ctx, path)
	if err != nil {
		return failed("image", err)
	}
	return classify("image", text)
}

func (e *Extractor) fromDOCX(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failed("DOCX", err)
	}
	if len(data) == 0 {
		return failed("DOCX", errors.New("empty docx data"))
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return failed("DOCX", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return failed("DOCX", errors.New("document.xml file not found"))
	}

	rc, err := docFile.Open()
	if err != nil {
		return failed("DOCX", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return failed("DOCX", err)
	}
	return classify("DOCX", stripDocxXML(string(raw)))
}

func failed(kind string, err error) Result {
	return Result{Status: StatusFailed, Kind: kind, Reason: err.Error()}
}

func classify(kind, text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Status: StatusEmpty, Kind: kind}
	}
	return Result{Status: StatusOK, Kind: kind, Text: trimmed}
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
