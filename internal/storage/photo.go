package storage

import (
	"bytes"
	"errors"

	"github.com/disintegration/imaging"
)

var ErrNotImage = errors.New("storage: file bukan gambar")

// NormalizePhoto mendekode foto (mengikuti orientasi EXIF), mengecilkan ke lebar maxWidth
// bila lebih besar, lalu menyimpannya sebagai JPEG.
func NormalizePhoto(data []byte, maxWidth int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrNotImage
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
