package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OCR turns an image file into plain text.
type OCR interface {
	ImageToText(ctx context.Context, path string) (string, error)
}

// TesseractOCR shells out to the tesseract binary, the same engine the
// Python OCR bindings wrap.
type TesseractOCR struct {
	Cmd string
}

// NewTesseractOCR returns an OCR engine using the given binary, defaulting
// to "tesseract" on PATH.
func NewTesseractOCR(cmd string) *TesseractOCR {
	if strings.TrimSpace(cmd) == "" {
		cmd = "tesseract"
	}
	return &TesseractOCR{Cmd: cmd}
}

// ImageToText runs tesseract with block segmentation and returns stdout.
func (t *TesseractOCR) ImageToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, t.Cmd, path, "stdout", "--psm", "6", "-l", "eng")

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(errBuf.String())
		if detail != "" {
			return "", fmt.Errorf("tesseract: %s: %w", detail, err)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return out.String(), nil
}
