// Package imagedata decodes inline images sent as data URIs
// ("data:image/png;base64,iVBOR...") into raw bytes ready for storage.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"foodgram/internal/pkg/apperr"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const DefaultMaxBytes = 5 * 1024 * 1024

// allowed maps sniffed MIME types to the file extension used on disk.
var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Image struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
}

// Decode parses a data URI. The declared type is ignored in favour of the
// sniffed one; every failure is reported as a validation error.
func Decode(raw string, maxBytes int) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:image/") {
		return nil, invalid("image must be a data:image/... URI")
	}

	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, invalid("image must be base64 encoded")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+3 {
		return nil, invalid(fmt.Sprintf("image exceeds %d bytes", maxBytes))
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, invalid("image is not valid base64").WithCause(err)
		}
	}
	if len(data) == 0 {
		return nil, invalid("image is empty")
	}
	if len(data) > maxBytes {
		return nil, invalid(fmt.Sprintf("image exceeds %d bytes", maxBytes))
	}

	mime := mimetype.Detect(data).String()
	ext, ok := allowed[mime]
	if !ok {
		return nil, invalid("unsupported image type " + mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("image cannot be decoded").WithCause(err)
	}

	return &Image{
		Data:     data,
		MimeType: mime,
		Ext:      ext,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

func invalid(msg string) *apperr.Error {
	return apperr.ValidationWithDetails("invalid image", map[string]string{"image": msg})
}
