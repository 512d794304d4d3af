package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, fill(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int, c color.Color) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, fill(w, h, c))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(100, 100)))
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if result.MIME != "image/jpeg" || result.Ext != ".jpg" {
		t.Errorf("expected image/jpeg .jpg, got %s %s", result.MIME, result.Ext)
	}
	if len(result.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(100, 100, color.RGBA{0, 0, 255, 255})))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.MIME)
	}
}

func TestProcessTransparentPNGOnWhite(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(10, 10, color.RGBA{})))
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	r, g, b, _ := decode(t, result.Data).At(5, 5).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel should be white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestProcessDownscale(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(2048, 1024)))
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	bounds := decode(t, result.Data).Bounds()
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(50, 50)))
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}

	bounds := decode(t, result.Data).Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessGIFPassedThrough(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, fill(4, 4, color.Black), nil); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process GIF: %v", err)
	}
	if result.MIME != "image/gif" || result.Ext != ".gif" {
		t.Errorf("expected image/gif .gif, got %s %s", result.MIME, result.Ext)
	}
	if !bytes.Equal(result.Data, data) {
		t.Error("GIF should be stored unchanged")
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("not an image")))
	if err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestProcessCorruptJPEG(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("\xff\xd8\xff\xe0garbage")))
	if err == nil {
		t.Error("expected error for corrupt JPEG")
	}
}
