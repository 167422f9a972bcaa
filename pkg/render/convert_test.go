package render

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`

func TestConvertMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if ConverterAvailable() {
		t.Fatal("ConverterAvailable() = true with empty PATH")
	}
	if _, err := ToPDF(context.Background(), []byte(tinySVG)); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPDF() error = %v, want ErrConverterMissing", err)
	}
	if _, err := ToPNG(context.Background(), []byte(tinySVG), 1); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPNG() error = %v, want ErrConverterMissing", err)
	}
}

func TestToPNG(t *testing.T) {
	if !ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}

	png, err := ToPNG(context.Background(), []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ToPNG() output is not a PNG")
	}
}

func TestToPDF(t *testing.T) {
	if !ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}

	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("ToPDF() output is not a PDF")
	}
}
