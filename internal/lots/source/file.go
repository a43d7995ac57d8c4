package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/JonMunkholm/pacificsands/internal/lots"
)

// File reads a JSON or YAML lot list from disk, or from FS when set.
type File struct {
	Path string
	FS   fs.FS
}

func (f *File) Name() string { return "file:" + f.Path }

func (f *File) Fetch(ctx context.Context) ([]lots.Lot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if f.FS != nil {
		data, err = fs.ReadFile(f.FS, f.Path)
	} else {
		data, err = os.ReadFile(f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return Decode(f.Path, data)
}
