// Package storage keeps uploaded images on local disk and maps them to
// public URLs served by gin's static handler.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"foodgram/internal/pkg/imagedata"

	"github.com/google/uuid"
)

const (
	UploadsBaseDir = "./uploads"
	StaticURLBase  = "/static"
)

// Disk сохраняет файлы в baseDir/<folder>/YYYY/MM/DD/<uuid>.<ext>.
type Disk struct {
	baseDir    string
	staticBase string
	now        func() time.Time
}

func NewDisk(baseDir, staticBase string) *Disk {
	if baseDir == "" {
		baseDir = UploadsBaseDir
	}
	if staticBase == "" {
		staticBase = StaticURLBase
	}
	return &Disk{
		baseDir:    baseDir,
		staticBase: strings.TrimRight(staticBase, "/"),
		now:        time.Now,
	}
}

func (d *Disk) BaseDir() string { return d.baseDir }

func (d *Disk) StaticBase() string { return d.staticBase }

// Save writes the image and returns its public URL.
func (d *Disk) Save(ctx context.Context, folder string, img *imagedata.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || len(img.Data) == 0 {
		return "", errors.New("empty image")
	}
	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")

	now := d.now()
	relDir := path.Join(folder, fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()))
	absDir := filepath.Join(d.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + img.Ext
	absPath := filepath.Join(absDir, filename)
	if err := os.WriteFile(absPath, img.Data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return d.staticBase + "/" + path.Join(relDir, filename), nil
}

// Delete removes the file behind a URL returned by Save. Missing files and
// foreign URLs are ignored.
func (d *Disk) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, ok := strings.CutPrefix(url, d.staticBase+"/")
	if !ok || rel == "" {
		return nil
	}
	// не выпускаем путь за пределы baseDir
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(d.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
