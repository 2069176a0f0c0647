package report

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/6045054-web/CHENGHUI/internal/model"
)

// MaxAttachmentBytes caps a single uploaded file.
const MaxAttachmentBytes = 10 << 20

var (
	ErrNotImage = errors.New("仅支持上传图片文件")
	ErrTooLarge = errors.New("附件超过大小限制")
)

// Mode selects how a batch of uploads is read.
type Mode int

const (
	// Concurrent reads every file in parallel; results appear in completion order.
	Concurrent Mode = iota
	// Ordered reads one file at a time and keeps selection order.
	Ordered
)

type Source interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type formFile struct{ h *multipart.FileHeader }

func (f formFile) Name() string                 { return f.h.Filename }
func (f formFile) ContentType() string          { return f.h.Header.Get("Content-Type") }
func (f formFile) Size() int64                  { return f.h.Size }
func (f formFile) Open() (io.ReadCloser, error) { return f.h.Open() }

// FormFiles adapts multipart headers to sources.
func FormFiles(headers []*multipart.FileHeader) []Source {
	out := make([]Source, len(headers))
	for i, h := range headers {
		out[i] = formFile{h}
	}
	return out
}

// EncodeImages reads image uploads into data URLs.
func EncodeImages(ctx context.Context, srcs []Source, mode Mode) ([]string, error) {
	return encodeAll(ctx, srcs, mode, func(s Source) (string, error) {
		ctype, data, err := read(s)
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(ctype, "image/") {
			return "", fmt.Errorf("%s: %w", s.Name(), ErrNotImage)
		}
		return dataURL(ctype, data), nil
	})
}

// EncodeFiles reads document uploads into attachment records.
func EncodeFiles(ctx context.Context, srcs []Source, mode Mode) ([]model.File, error) {
	return encodeAll(ctx, srcs, mode, func(s Source) (model.File, error) {
		ctype, data, err := read(s)
		if err != nil {
			return model.File{}, err
		}
		return model.File{Name: s.Name(), Size: int64(len(data)), Type: ctype, Data: dataURL(ctype, data)}, nil
	})
}

func encodeAll[T any](ctx context.Context, srcs []Source, mode Mode, fn func(Source) (T, error)) ([]T, error) {
	out := make([]T, 0, len(srcs))
	if mode == Ordered {
		for _, s := range srcs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := fn(s)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for _, s := range srcs {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			v, err := fn(s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			out = append(out, v)
		}(s)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func read(s Source) (string, []byte, error) {
	if s.Size() > MaxAttachmentBytes {
		return "", nil, fmt.Errorf("%s: %w", s.Name(), ErrTooLarge)
	}
	rc, err := s.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", s.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxAttachmentBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", s.Name(), err)
	}
	if len(data) > MaxAttachmentBytes {
		return "", nil, fmt.Errorf("%s: %w", s.Name(), ErrTooLarge)
	}
	ctype := s.ContentType()
	if ctype == "" || ctype == "application/octet-stream" {
		ctype = http.DetectContentType(data)
	}
	if i := strings.Index(ctype, ";"); i >= 0 {
		ctype = strings.TrimSpace(ctype[:i])
	}
	return ctype, data, nil
}

func dataURL(ctype string, data []byte) string {
	return "data:" + ctype + ";base64," + base64.StdEncoding.EncodeToString(data)
}
