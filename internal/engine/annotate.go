package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// boxPalette cycles per class so adjacent classes stay distinguishable.
var boxPalette = []color.RGBA{
	{R: 16, G: 185, B: 129, A: 255},
	{R: 239, G: 68, B: 68, A: 255},
	{R: 59, G: 130, B: 246, A: 255},
	{R: 245, G: 158, B: 11, A: 255},
	{R: 168, G: 85, B: 247, A: 255},
	{R: 236, G: 72, B: 153, A: 255},
}

const boxThickness = 2

// annotateJPEG decodes src, draws detection boxes and labels, and re-encodes
// at the given quality. The source bytes are left untouched.
func annotateJPEG(src []byte, dets []vision.Detection, quality int) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	for _, det := range dets {
		col := paletteColor(det.ClassID)
		x1, y1 := clampPoint(int(det.X1), int(det.Y1), bounds)
		x2, y2 := clampPoint(int(det.X2), int(det.Y2), bounds)
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		drawBox(rgba, x1, y1, x2, y2, col)

		label := fmt.Sprintf("%s %d%%", det.Label, int(det.Confidence*100+0.5))
		drawLabel(rgba, x1, y1, label, col)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func paletteColor(classID int32) color.RGBA {
	idx := int(classID) % len(boxPalette)
	if idx < 0 {
		idx += len(boxPalette)
	}
	return boxPalette[idx]
}

func clampPoint(x, y int, b image.Rectangle) (int, int) {
	return min(max(x, b.Min.X), b.Max.X-1), min(max(y, b.Min.Y), b.Max.Y-1)
}

func drawBox(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	for t := 0; t < boxThickness; t++ {
		for x := x1; x <= x2; x++ {
			img.SetRGBA(x, y1+t, col)
			img.SetRGBA(x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			img.SetRGBA(x1+t, y, col)
			img.SetRGBA(x2-t, y, col)
		}
	}
}

// drawLabel renders text on a filled tab above the box (or inside its top
// edge when the box touches the frame top).
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 8
	h := face.Height + 4

	top := y - h
	if top < img.Bounds().Min.Y {
		top = y
	}
	tab := image.Rect(x, top, x+w, top+h)
	draw.Draw(img, tab.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x + 4),
			Y: fixed.I(top + face.Ascent + 2),
		},
	}
	d.DrawString(text)
}
