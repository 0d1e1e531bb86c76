// Package storage menyimpan foto bukti absensi ke Google Cloud Storage atau disk lokal.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrUnknownRef = errors.New("storage: referensi tidak dikenal")

// Object adalah hasil penyimpanan. URL untuk ditampilkan, Ref untuk menghapus.
type Object struct {
	URL string
	Ref string
}

type Storage interface {
	Store(ctx context.Context, folder string, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, ref string) error
}

// objectName membentuk nama unik seperti "attendance/2026/03/<uuid>.jpg".
func objectName(folder, contentType string, now time.Time) string {
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	}
	return path.Join(folder, now.Format("2006/01"), uuid.NewString()+ext)
}

func splitRef(ref string) (scheme, name string, err error) {
	scheme, name, ok := strings.Cut(ref, ":")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}
	return scheme, name, nil
}

// Fallback mencoba Primary lebih dulu lalu Secondary jika gagal.
// Delete diteruskan ke backend sesuai skema pada ref.
type Fallback struct {
	Primary   Storage
	Secondary Storage
	Log       *logrus.Logger
}

func (f *Fallback) Store(ctx context.Context, folder string, data []byte, contentType string) (Object, error) {
	obj, err := f.Primary.Store(ctx, folder, data, contentType)
	if err == nil {
		return obj, nil
	}
	if f.Log != nil {
		f.Log.WithError(err).WithField("folder", folder).Warn("Upload ke cloud gagal, menyimpan ke disk lokal")
	}
	return f.Secondary.Store(ctx, folder, data, contentType)
}

func (f *Fallback) Delete(ctx context.Context, ref string) error {
	scheme, _, err := splitRef(ref)
	if err != nil {
		return err
	}
	if scheme == schemeLocal {
		return f.Secondary.Delete(ctx, ref)
	}
	return f.Primary.Delete(ctx, ref)
}
