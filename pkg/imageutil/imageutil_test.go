package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDataURLSniffsPNG(t *testing.T) {
	data := pngBytes(t)
	url, err := DataURL(data)
	if err != nil {
		t.Fatalf("data url: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %q", url[:30])
	}
	encoded, _ := Encode(data)
	if StripDataURLPrefix(url) != encoded {
		t.Fatalf("strip prefix did not return the encoded payload")
	}
}

func TestDataURLFromBase64FallsBackToJPEG(t *testing.T) {
	got := DataURLFromBase64("bm90IGFuIGltYWdl")
	if got != "data:image/jpeg;base64,bm90IGFuIGltYWdl" {
		t.Fatalf("unexpected data url %q", got)
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	cases := map[string]string{
		"data:image/png;base64,AAAA": "AAAA",
		"AAAA":                       "AAAA",
		"data:image/png;base64":      "",
	}
	for in, want := range cases {
		if got := StripDataURLPrefix(in); got != want {
			t.Fatalf("StripDataURLPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	if _, err := Encode(nil); err != ErrEmptyImage {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestDownloadName(t *testing.T) {
	if got := DownloadName("photo", SuffixInput); got != "photo_input.jpg" {
		t.Fatalf("got %q", got)
	}
	if got := DownloadName("mask", SuffixOutput); got != "mask_output.jpg" {
		t.Fatalf("got %q", got)
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode("data:image/png;base64,aGk=")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("got %q", got)
	}
	if _, err := Decode(""); err != ErrEmptyImage {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := Decode("not base64!"); err == nil {
		t.Fatalf("expected decode error")
	}
}
