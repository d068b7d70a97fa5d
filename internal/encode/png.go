package encode

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes previews as PNG. Outlines on a flat background compress
// well, so the default compression level is used.
type PNGEncoder struct{}

func (e *PNGEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PNGEncoder) Format() string        { return "png" }
func (e *PNGEncoder) FileExtension() string { return ".png" }
func (e *PNGEncoder) MIMEType() string      { return "image/png" }
