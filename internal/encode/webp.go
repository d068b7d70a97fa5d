package encode

import (
	"bytes"
	"image"

	"github.com/gen2brain/webp"
)

// WebPEncoder encodes previews as WebP using a pure-Go (WASM-based) encoder.
// A quality of 100 or more switches to lossless mode, which keeps thin
// outline strokes crisp.
type WebPEncoder struct {
	Quality  int
	Lossless bool
}

func newWebPEncoder(quality int) (Encoder, error) {
	if quality <= 0 {
		quality = 90
	}
	return &WebPEncoder{Quality: quality, Lossless: quality >= 100}, nil
}

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	opts := webp.Options{
		Lossless: e.Lossless,
		Quality:  min(e.Quality, 100),
	}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *WebPEncoder) Format() string        { return "webp" }
func (e *WebPEncoder) FileExtension() string { return ".webp" }
func (e *WebPEncoder) MIMEType() string      { return "image/webp" }
