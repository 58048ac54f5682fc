package filestore

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

var unsafeChars = regexp.MustCompile(`[^\w.\-]+`)

// Store saves uploads under root on an afero filesystem.
type Store struct {
	fs   afero.Fs
	root string
}

var _ course.FileStore = (*Store)(nil)

func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Save writes content to <root>/<dir>/<uuid>_<safe filename> and returns the path relative to root.
func (s *Store) Save(ctx context.Context, dir, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(path.Clean("/"+dir)[1:], uuid.New().String()+"_"+SafeFilename(filename))
	full := path.Join(s.root, rel)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload dir")
	}

	f, err := s.fs.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	if _, err = io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(full)
		return "", errors.Wrap(err, "writing upload file")
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "closing upload file")
	}
	return rel, nil
}

// Remove deletes the stored file at rel, as returned by Save.
func (s *Store) Remove(rel string) error {
	if err := s.fs.Remove(path.Join(s.root, path.Clean("/"+rel)[1:])); err != nil {
		return errors.Wrap(err, "removing upload file")
	}
	return nil
}

// SafeFilename strips directories and anything outside [A-Za-z0-9_.-] from name.
func SafeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "upload"
	}
	return name
}
