package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// Dir is a filesystem Store rooted at a directory with the layout:
//
//	<root>/fonts/<name>       font blobs, name used verbatim
//	<root>/images/<id>.<ext>  encoded images, format from extension
//	<root>/streams/<id>.<ext> streamed textures, same rules as images
//
// The image format comes from the file extension: raw-format extensions
// (gray, ga, rgb, rgba, ...) map to their pixel format, anything else
// (png, jpg, ...) to FormatEncoded. Width and height are always zero;
// files carry no dimension metadata.
type Dir struct {
	Root string
}

// NewDir creates a filesystem store rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Font implements Store.
func (d *Dir) Font(_ context.Context, name string) ([]byte, error) {
	return d.read(filepath.Join(d.Root, "fonts", filepath.Base(name)))
}

// Image implements Store.
func (d *Dir) Image(_ context.Context, id string) (Image, error) {
	return d.readImage(filepath.Join(d.Root, "images"), id)
}

// Stream implements Store.
func (d *Dir) Stream(_ context.Context, id string) (Image, error) {
	return d.readImage(filepath.Join(d.Root, "streams"), id)
}

func (d *Dir) readImage(dir, id string) (Image, error) {
	path, err := d.find(dir, id)
	if err != nil {
		return Image{}, err
	}
	data, err := d.read(path)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Format: protocol.ParseImageFormat(strings.TrimPrefix(filepath.Ext(path), ".")),
		Data:   data,
	}, nil
}

// find locates the file for an asset id, with or without an extension.
func (d *Dir) find(dir, id string) (string, error) {
	base := filepath.Base(id)

	exact := filepath.Join(dir, base)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil || len(matches) == 0 {
		return "", ErrNotFound
	}
	return matches[0], nil
}

func (d *Dir) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	return data, nil
}
