package formats

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
	}{
		{name: "short png", input: "png", expected: PNG},
		{name: "jpg alias", input: "jpg", expected: JPEG},
		{name: "upper case", input: "JPEG", expected: JPEG},
		{name: "mime type", input: "image/webp", expected: WebP},
		{name: "dotted extension", input: ".tif", expected: TIFF},
		{name: "svg mime", input: "image/svg+xml", expected: SVG},
		{name: "heic alias", input: "heic", expected: HEIF},
		{name: "unknown kept", input: "AVIF", expected: Format("avif")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanEncode(t *testing.T) {
	for _, f := range []Format{PNG, JPEG, WebP} {
		if !f.CanEncode() {
			t.Errorf("%s should be an encode target", f)
		}
	}
	for _, f := range []Format{GIF, BMP, TIFF, HEIF, SVG} {
		if f.CanEncode() {
			t.Errorf("%s should not be an encode target", f)
		}
	}
}

func TestQualityAndAlpha(t *testing.T) {
	if JPEG.Quality() != 0.9 {
		t.Errorf("JPEG quality = %v, want 0.9", JPEG.Quality())
	}
	if PNG.Quality() != 1.0 || WebP.Quality() != 1.0 {
		t.Error("PNG and WebP should use quality 1.0")
	}
	if JPEG.HasAlpha() {
		t.Error("JPEG has no alpha channel")
	}
	if !PNG.HasAlpha() || !WebP.HasAlpha() {
		t.Error("PNG and WebP keep alpha")
	}
}

func TestSupportedTargetsText(t *testing.T) {
	if got := SupportedTargetsText(); got != "PNG, JPEG, and WebP" {
		t.Errorf("SupportedTargetsText() = %q", got)
	}
}

func TestAcceptSource(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mime     string
		expected Format
		wantErr  bool
	}{
		{name: "png by mime", fileName: "a.png", mime: "image/png", expected: PNG},
		{name: "svg by mime", fileName: "icon.svg", mime: "image/svg+xml", expected: SVG},
		{name: "mime with params", fileName: "x", mime: "image/jpeg; charset=binary", expected: JPEG},
		{name: "heic by extension", fileName: "IMG_0001.HEIC", mime: "", expected: HEIF},
		{name: "tif by extension", fileName: "scan.tif", mime: "application/octet-stream", expected: TIFF},
		{name: "mislabeled still accepted", fileName: "notes.txt", mime: "image/png", expected: PNG},
		{name: "pdf rejected", fileName: "doc.pdf", mime: "application/pdf", wantErr: true},
		{name: "no hints rejected", fileName: "README", mime: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AcceptSource(tt.fileName, tt.mime)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected rejection, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("AcceptSource() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAcceptAttribute(t *testing.T) {
	accept := AcceptAttribute()
	for _, want := range []string{"image/svg+xml", ".heic", ".jpeg", ".tif"} {
		if !strings.Contains(accept, want) {
			t.Errorf("accept attribute %q missing %q", accept, want)
		}
	}
}

func TestSourceFormatsText(t *testing.T) {
	expected := "SVG, JPEG, PNG, GIF, BMP, TIFF, WebP, HEIF"
	if got := SourceFormatsText(); got != expected {
		t.Errorf("SourceFormatsText() = %q, want %q", got, expected)
	}
}
