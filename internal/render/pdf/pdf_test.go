package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func testPage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	pages := []image.Image{testPage(794, 1123), testPage(794, 1123)}

	err := NewRenderer().Render(pages, &buf, RenderOptions{
		Title:    "Test Invoice",
		Author:   "Acme",
		Creator:  "InvoPDF",
		Producer: "InvoPDF",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(16, len(out))])
	}
	if len(out) < 1024 {
		t.Errorf("output suspiciously small: %d bytes", len(out))
	}
}

func TestRenderNoPages(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().Render(nil, &buf, RenderOptions{}); err == nil {
		t.Fatal("want error for empty page list")
	}
}
