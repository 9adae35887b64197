package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"testing"

	"github.com/edirooss/vision-server/internal/domain/vision"
)

// testJPEG encodes a uniform dark frame of the given size.
func testJPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 40, G: 44, B: 52, A: 255}), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test frame: %v", err)
	}
	return buf.Bytes()
}

// TestAnnotateDrawsBox verifies the output is a valid JPEG of the same size
// with the box visibly painted.
func TestAnnotateDrawsBox(t *testing.T) {
	src := testJPEG(t, 160, 120)
	dets := []vision.Detection{
		{X1: 10, Y1: 10, X2: 80, Y2: 60, Confidence: 0.87, ClassID: 0, Label: "person"},
	}

	out, err := annotateJPEG(src, dets, 90)
	if err != nil {
		t.Fatalf("annotateJPEG failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not decodable JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("Expected 160x120 output, got %dx%d", b.Dx(), b.Dy())
	}

	// The label tab sits over the box's top-left corner; class 0 paints
	// green over the dark background. JPEG blurs it, so use wide margins.
	_, g, _, _ := img.At(40, 12).RGBA()
	if g>>8 < 100 {
		t.Errorf("Expected a green annotation at (40,12), got green=%d", g>>8)
	}
}

// TestAnnotateSourceUntouched verifies the input bytes are not mutated.
func TestAnnotateSourceUntouched(t *testing.T) {
	src := testJPEG(t, 64, 48)
	orig := append([]byte(nil), src...)

	if _, err := annotateJPEG(src, []vision.Detection{{X1: 2, Y1: 2, X2: 30, Y2: 30, Label: "x"}}, 85); err != nil {
		t.Fatalf("annotateJPEG failed: %v", err)
	}
	if !bytes.Equal(src, orig) {
		t.Error("Source frame bytes were mutated")
	}
}

// TestAnnotateSkipsDegenerateBoxes verifies empty and inverted boxes are
// ignored instead of panicking.
func TestAnnotateSkipsDegenerateBoxes(t *testing.T) {
	src := testJPEG(t, 64, 48)
	dets := []vision.Detection{
		{X1: 30, Y1: 30, X2: 10, Y2: 10, Label: "inverted"},
		{X1: 5, Y1: 5, X2: 5, Y2: 5, Label: "empty"},
		{X1: -100, Y1: -100, X2: 500, Y2: 500, Label: "oversized"},
	}

	out, err := annotateJPEG(src, dets, 85)
	if err != nil {
		t.Fatalf("annotateJPEG failed: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("Output is not decodable JPEG: %v", err)
	}
}

// TestAnnotateRejectsGarbage verifies undecodable input errors out.
func TestAnnotateRejectsGarbage(t *testing.T) {
	if _, err := annotateJPEG([]byte("not a jpeg"), nil, 85); err == nil {
		t.Fatal("Expected error for garbage input")
	}
}

// TestPaletteColorWraps verifies class IDs map into the palette, negatives
// included.
func TestPaletteColorWraps(t *testing.T) {
	if got := paletteColor(0); got != boxPalette[0] {
		t.Errorf("Class 0: expected palette[0], got %v", got)
	}
	if got := paletteColor(int32(len(boxPalette))); got != boxPalette[0] {
		t.Errorf("Class wrap: expected palette[0], got %v", got)
	}
	if got := paletteColor(-1); got != boxPalette[len(boxPalette)-1] {
		t.Errorf("Class -1: expected last palette entry, got %v", got)
	}
}
