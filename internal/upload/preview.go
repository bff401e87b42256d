package upload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	// Preview decoding supports the formats the processing service accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Preview is the derived, display-only rendition of the selected file. It is
// best-effort: a file without a preview is still submittable.
type Preview struct {
	DataURL string
	Format  string
	Width   int
	Height  int
}

func buildPreview(content []byte) (*Preview, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}

	return &Preview{
		DataURL: fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(content)),
		Format:  format,
		Width:   cfg.Width,
		Height:  cfg.Height,
	}, nil
}
