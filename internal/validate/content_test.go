package validate_test

import (
	"errors"
	"testing"

	"secupload/internal/testutil"
	"secupload/internal/validate"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		claim string
		want  bool
	}{
		{name: "jpeg as jpg", data: testutil.JPEG(), claim: "x.jpg", want: true},
		{name: "jpeg as png", data: testutil.JPEG(), claim: "x.png", want: false},
		{name: "jpeg as jpeg alias", data: testutil.JPEG(), claim: "x.jpeg", want: true},
		{name: "jpeg as jpe alias", data: testutil.JPEG(), claim: "x.jpe", want: true},
		{name: "jpeg with upper case extension", data: testutil.JPEG(), claim: "x.JPG", want: false},
		{name: "png as png", data: testutil.PNG(), claim: "/tmp/photos/holiday.png", want: true},
		{name: "png named jpg", data: testutil.PNG(), claim: "holiday.jpg", want: false},
		{name: "gif as gif", data: testutil.GIF(), claim: "anim.gif", want: true},
		{name: "webm as webm", data: testutil.WebM(), claim: "x.webm", want: true},
		{name: "webm named mp4", data: testutil.WebM(), claim: "x.mp4", want: false},
		{name: "bare jpeg magic as jpg", data: []byte{0xFF, 0xD8, 0xFF}, claim: "x.jpg", want: true},
		{name: "bare jpeg magic as jpeg", data: []byte{0xFF, 0xD8, 0xFF}, claim: "x.jpeg", want: true},
		{name: "bare jpeg magic as png", data: []byte{0xFF, 0xD8, 0xFF}, claim: "x.png", want: false},
		{name: "bare ebml magic as webm", data: []byte{0x1A, 0x45, 0xDF, 0xA3}, claim: "x.webm", want: true},
		{name: "ebml magic with payload as webm", data: append([]byte{0x1A, 0x45, 0xDF, 0xA3}, make([]byte, 64)...), claim: "x.webm", want: true},
		{name: "bare ebml magic as mp4", data: []byte{0x1A, 0x45, 0xDF, 0xA3}, claim: "x.mp4", want: false},
		{name: "xml named xml", data: testutil.XML(), claim: "x.xml", want: false},
		{name: "xml named jpg", data: testutil.XML(), claim: "x.jpg", want: false},
		{name: "xml header only", data: []byte{0x3C, 0x3F, 0x78, 0x6D, 0x6C}, claim: "x.png", want: false},
		{name: "empty content", data: nil, claim: "x.jpg", want: false},
		{name: "no extension", data: testutil.JPEG(), claim: "photo", want: false},
		{name: "trailing dot", data: testutil.JPEG(), claim: "photo.", want: false},
		{name: "dot in directory only", data: testutil.JPEG(), claim: "/a.jpg/photo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validate.Content(tt.data, tt.claim); got != tt.want {
				t.Errorf("Content(%q) = %v, want %v", tt.claim, got, tt.want)
			}
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		claim   string
		wantErr error
	}{
		{name: "empty content", data: []byte{}, claim: "x.jpg", wantErr: validate.ErrEmptyContent},
		{name: "not media", data: testutil.XML(), claim: "x.jpg", wantErr: validate.ErrNotMedia},
		{name: "not media without extension", data: testutil.XML(), claim: "x", wantErr: validate.ErrNotMedia},
		{name: "media without extension", data: testutil.PNG(), claim: "x", wantErr: validate.ErrNoExtension},
		{name: "mismatch", data: testutil.PNG(), claim: "x.gif", wantErr: validate.ErrExtensionMismatch},
		{
			name:    "matroska named webm",
			data:    []byte{0x1A, 0x45, 0xDF, 0xA3, 0x42, 0x82, 0x88, 'm', 'a', 't', 'r', 'o', 's', 'k', 'a'},
			claim:   "x.webm",
			wantErr: validate.ErrExtensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate.Check(tt.data, tt.claim)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck_Kind(t *testing.T) {
	kind, err := validate.Check(testutil.JPEG(), "cat.jpeg")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !kind.IsImage() || kind.IsVideo() {
		t.Errorf("jpeg kind IsImage = %v, IsVideo = %v", kind.IsImage(), kind.IsVideo())
	}
	if kind.Extension != "jpg" {
		t.Errorf("Extension = %q, want %q", kind.Extension, "jpg")
	}
	if kind.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want %q", kind.MIME, "image/jpeg")
	}

	kind, err = validate.Check(testutil.WebM(), "clip.webm")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !kind.IsVideo() {
		t.Error("webm kind IsVideo = false, want true")
	}
	if kind.MIME != "video/webm" {
		t.Errorf("MIME = %q, want %q", kind.MIME, "video/webm")
	}

	kind, err = validate.Check([]byte{0x1A, 0x45, 0xDF, 0xA3}, "bare.webm")
	if err != nil {
		t.Fatalf("Check() on bare EBML magic error = %v", err)
	}
	if !kind.IsVideo() || kind.Extension != "webm" {
		t.Errorf("bare EBML kind = %+v, want a webm video", kind)
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		"jpeg": "jpg",
		"jpe":  "jpg",
		"jpg":  "jpg",
		"tiff": "tif",
		"tif":  "tif",
		"qt":   "mov",
		"mov":  "mov",
		"JPEG": "JPEG",
		"webm": "webm",
	}
	for in, want := range tests {
		if got := validate.NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"x.jpg":              "jpg",
		"archive.tar.gz":     "gz",
		"/home/u/clip.webm":  "webm",
		"noext":              "",
		"trailing.":          "",
		"/dir.with.dots/raw": "",
		"":                   "",
	}
	for in, want := range tests {
		if got := validate.Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
