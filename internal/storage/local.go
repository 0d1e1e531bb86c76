package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const schemeLocal = "local"

// Local menyimpan file di bawah Dir dan disajikan lewat app.Static(URLPrefix, Dir).
type Local struct {
	Dir       string
	URLPrefix string
	now       func() time.Time
}

func NewLocal(dir, urlPrefix string) *Local {
	return &Local{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}
}

func (l *Local) Store(ctx context.Context, folder string, data []byte, contentType string) (Object, error) {
	name := objectName(folder, contentType, l.now())
	full, err := l.resolve(name)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return Object{}, err
	}
	return Object{
		URL: l.URLPrefix + "/" + filepath.ToSlash(name),
		Ref: schemeLocal + ":" + filepath.ToSlash(name),
	}, nil
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	scheme, name, err := splitRef(ref)
	if err != nil {
		return err
	}
	if scheme != schemeLocal {
		return fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}
	full, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve menolak nama yang keluar dari Dir (misal "../../etc/passwd").
func (l *Local) resolve(name string) (string, error) {
	root, err := filepath.Abs(l.Dir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(name))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: path di luar direktori upload: %q", name)
	}
	return full, nil
}
