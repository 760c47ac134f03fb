package assets

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	m := NewMem()

	m.PutFont("roboto", []byte("font-bytes"))
	m.PutImage("logo", Image{Format: protocol.FormatRGBA, Width: 2, Height: 2, Data: []byte("pix")})
	m.PutStream("cam", Image{Format: protocol.FormatGray, Width: 64, Height: 64, Data: []byte("frame")})

	font, err := m.Font(ctx, "roboto")
	if err != nil || !bytes.Equal(font, []byte("font-bytes")) {
		t.Errorf("Font() = %q, %v", font, err)
	}

	img, err := m.Image(ctx, "logo")
	if err != nil || img.Format != protocol.FormatRGBA || img.Width != 2 {
		t.Errorf("Image() = %+v, %v", img, err)
	}

	stream, err := m.Stream(ctx, "cam")
	if err != nil || stream.Format != protocol.FormatGray {
		t.Errorf("Stream() = %+v, %v", stream, err)
	}

	if _, err := m.Font(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Font(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Image(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Image(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Stream(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stream(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDirStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	mustWrite := func(rel string, data []byte) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite("fonts/roboto.ttf", []byte("ttf"))
	mustWrite("images/logo.png", []byte("png-bytes"))
	mustWrite("streams/cam.rgba", []byte("raw"))

	d := NewDir(root)

	font, err := d.Font(ctx, "roboto.ttf")
	if err != nil || !bytes.Equal(font, []byte("ttf")) {
		t.Errorf("Font() = %q, %v", font, err)
	}

	// Exact name and extension-less lookup both work.
	img, err := d.Image(ctx, "logo.png")
	if err != nil || img.Format != protocol.FormatEncoded {
		t.Errorf("Image(logo.png) = %+v, %v", img, err)
	}
	img, err = d.Image(ctx, "logo")
	if err != nil || !bytes.Equal(img.Data, []byte("png-bytes")) {
		t.Errorf("Image(logo) = %+v, %v", img, err)
	}

	// Raw-format extensions map to their pixel format.
	stream, err := d.Stream(ctx, "cam")
	if err != nil || stream.Format != protocol.FormatRGBA {
		t.Errorf("Stream(cam) = %+v, %v", stream, err)
	}

	if _, err := d.Font(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Font(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := d.Image(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Image(missing) error = %v, want ErrNotFound", err)
	}
}
