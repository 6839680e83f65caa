package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Source loads raw manifest documents by style id. Name must be stable and
// unique per backing store since it keys the manifest cache.
type Source interface {
	Name() string
	Load(ctx context.Context, styleID string) ([]byte, error)
}

type fsSource struct {
	name string
	fsys fs.FS
}

// NewFSSource reads {styleId}.json from fsys.
func NewFSSource(name string, fsys fs.FS) Source {
	return fsSource{name: "fs:" + name, fsys: fsys}
}

// NewDirSource reads {styleId}.json from a directory on disk.
func NewDirSource(dir string) Source {
	return fsSource{name: "dir:" + dir, fsys: os.DirFS(dir)}
}

func (s fsSource) Name() string { return s.name }

func (s fsSource) Load(ctx context.Context, styleID string) ([]byte, error) {
	if s.fsys == nil {
		return nil, errors.New("assets: manifest filesystem is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := manifestFileName(styleID)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, name)
}

type httpSource struct {
	base    string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPSource fetches {base}/{styleId}.json. A nil client gets a default
// one bounded by timeout.
func NewHTTPSource(base string, client *http.Client, timeout time.Duration) Source {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return httpSource{
		base:    strings.TrimRight(strings.TrimSpace(base), "/"),
		client:  client,
		timeout: timeout,
	}
}

func (s httpSource) Name() string { return "http:" + s.base }

func (s httpSource) Load(ctx context.Context, styleID string) ([]byte, error) {
	if s.base == "" {
		return nil, errors.New("assets: manifest base url is required")
	}
	name, err := manifestFileName(styleID)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.base+"/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("assets: manifest %q: unexpected status %s", styleID, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func manifestFileName(styleID string) (string, error) {
	styleID = strings.TrimSpace(styleID)
	if styleID == "" || strings.ContainsAny(styleID, `/\`) || styleID != path.Clean(styleID) || strings.HasPrefix(styleID, ".") {
		return "", fmt.Errorf("assets: invalid style id %q", styleID)
	}
	return styleID + ".json", nil
}
