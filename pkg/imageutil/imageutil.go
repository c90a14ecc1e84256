// Package imageutil holds the small helpers shared by the image preview,
// upload and download paths: data-URL construction, prefix stripping, MIME
// sniffing and download file names.
package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// FallbackMIME is used when the payload cannot be sniffed. Result images
// arrive as bare base64 and are assumed to be JPEG.
const FallbackMIME = "image/jpeg"

// Download name suffixes for input previews and result images.
const (
	SuffixInput  = "input"
	SuffixOutput = "output"
)

// ErrEmptyImage is returned when an image payload has no bytes.
var ErrEmptyImage = errors.New("imageutil: image data is empty")

// Encode returns the base64 (StdEncoding) form transmitted to the inference
// server, without any data-URL prefix.
func Encode(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURL wraps raw image bytes into a data URL suitable for an <img> src.
func DataURL(data []byte) (string, error) {
	encoded, err := Encode(data)
	if err != nil {
		return "", err
	}
	return "data:" + DetectMIME(data) + ";base64," + encoded, nil
}

// DataURLFromBase64 wraps an already encoded payload. The MIME type is sniffed
// from the decoded bytes when possible.
func DataURLFromBase64(encoded string) string {
	mime := FallbackMIME
	if raw, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		mime = DetectMIME(raw)
	}
	return "data:" + mime + ";base64," + encoded
}

// StripDataURLPrefix drops everything up to and including the first comma of
// a data URL. Values without a data: prefix are returned unchanged.
func StripDataURLPrefix(value string) string {
	if !strings.HasPrefix(value, "data:") {
		return value
	}
	_, payload, found := strings.Cut(value, ",")
	if !found {
		return ""
	}
	return payload
}

// IsDataURL reports whether value looks like a base64 data URL.
func IsDataURL(value string) bool {
	head, _, found := strings.Cut(value, ",")
	return found && strings.HasPrefix(head, "data:") && strings.HasSuffix(head, ";base64")
}

// DetectMIME sniffs the image format through the registered decoders (gif,
// jpeg, png, webp) and falls back to FallbackMIME.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return FallbackMIME
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return FallbackMIME
	}
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return FallbackMIME
	}
}

// DownloadName builds the file name offered for an image download, e.g.
// "photo_input.jpg" or "mask_output.jpg".
func DownloadName(featureName, suffix string) string {
	return featureName + "_" + suffix + ".jpg"
}

// Decode returns the bytes of a base64 image value. A data URL prefix is
// ignored.
func Decode(value string) ([]byte, error) {
	raw := strings.TrimSpace(StripDataURLPrefix(value))
	if raw == "" {
		return nil, ErrEmptyImage
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("imageutil: decode base64: %w", err)
	}
	return data, nil
}
