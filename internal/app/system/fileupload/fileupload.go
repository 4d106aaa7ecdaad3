// Package fileupload stores multipart files in the configured storage
// backend under generated, collision-free paths.
package fileupload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Store is the part of storage.Store uploads need.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// Info describes a stored upload.
type Info struct {
	OriginalName string
	FileName     string
	Path         string
	Size         int64
	ContentType  string
	URL          string
}

// Save writes the file behind hdr to dir/YYYY/MM/<uuid8>-<name>.
func Save(ctx context.Context, store Store, dir string, hdr *multipart.FileHeader) (Info, error) {
	f, err := hdr.Open()
	if err != nil {
		return Info{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	contentType := DetectContentType(hdr, f)

	now := time.Now().UTC()
	name := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(hdr.Filename))
	path := filepath.ToSlash(filepath.Join(dir, fmt.Sprintf("%04d/%02d", now.Year(), now.Month()), name))

	if err := store.Put(ctx, path, f, &storage.PutOptions{ContentType: contentType}); err != nil {
		return Info{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return Info{
		OriginalName: hdr.Filename,
		FileName:     name,
		Path:         path,
		Size:         hdr.Size,
		ContentType:  contentType,
		URL:          store.URL(path),
	}, nil
}

// DetectContentType prefers the part header and falls back to sniffing.
// f is rewound after sniffing.
func DetectContentType(hdr *multipart.FileHeader, f multipart.File) string {
	if ct := hdr.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	_, _ = f.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}

// FormFile parses a multipart body capped at maxBytes and returns field.
// Oversize bodies and missing fields are BadRequest.
func FormFile(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, "invalid multipart upload", err)
	}
	_, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, fmt.Sprintf("missing %q file", field), err)
	}
	if hdr.Size > maxBytes {
		return nil, apperr.BadRequestf(fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}
	return hdr, nil
}

// PathFromURL recovers the storage path behind a URL produced by store.URL.
func PathFromURL(store Store, url string) (string, bool) {
	const probe = "probe"
	prefix := strings.TrimSuffix(store.URL(probe), probe)
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// sanitizeFilename removes or replaces characters that could be problematic in filenames.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 || string(result) == "." || string(result) == "_" {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve extension if present
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
