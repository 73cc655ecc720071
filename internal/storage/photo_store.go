package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // kamera Android sering mengirim WebP
)

// Folder di bawah root upload.
const (
	FolderAttendance = "absensi"
	FolderLeave      = "ijin"
	FolderProfile    = "profile"
)

var ErrNotImage = errors.New("file bukan gambar yang didukung")

// PhotoStore menerima isi foto dan mengembalikan referensi relatif (folder/nama.jpg).
type PhotoStore interface {
	Save(ctx context.Context, folder string, r io.Reader) (string, error)
	Remove(ref string) error
	// Walk memanggil fn untuk setiap file foto beserta waktu modifikasinya.
	Walk(fn func(ref string, modTime time.Time) error) error
}

type LocalPhotoStore struct {
	root   string
	maxDim int
	log    *log.Logger
	now    func() time.Time
}

func NewLocalPhotoStore(root string, maxDim int, l *log.Logger) *LocalPhotoStore {
	return &LocalPhotoStore{root: root, maxDim: maxDim, log: l, now: time.Now}
}

func (s *LocalPhotoStore) Root() string { return s.root }

// Save men-decode gambar (orientasi EXIF diperbaiki), memperkecil ke maxDim,
// lalu menulis JPEG ke file sementara dan me-rename agar tidak ada file setengah jadi.
func (s *LocalPhotoStore) Save(ctx context.Context, folder string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img = s.fit(img)

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.jpg", s.now().Format("20060102150405"), uuid.NewString())
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	return path.Join(folder, name), nil
}

func (s *LocalPhotoStore) fit(img image.Image) image.Image {
	b := img.Bounds()
	if s.maxDim <= 0 || (b.Dx() <= s.maxDim && b.Dy() <= s.maxDim) {
		return img
	}
	return imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
}

func (s *LocalPhotoStore) Remove(ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalPhotoStore) Walk(fn func(ref string, modTime time.Time) error) error {
	err := filepath.WalkDir(s.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info.ModTime())
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolve menolak referensi yang keluar dari root (../).
func (s *LocalPhotoStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if clean == "/" || strings.Contains(ref, "..") {
		return "", fmt.Errorf("referensi foto tidak valid: %q", ref)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// RemoveAll dipakai setelah commit (cascade delete); kegagalan hanya dicatat.
func RemoveAll(store PhotoStore, refs []string, l *log.Logger) {
	for _, ref := range refs {
		if err := store.Remove(ref); err != nil {
			l.Printf("[PHOTO] gagal hapus %s: %v", ref, err)
		}
	}
}
