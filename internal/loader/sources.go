package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/github"
)

const maxDocumentBytes = 32 << 20

// HTTPSource reads the document from a read-only URL. Every request carries a
// cache-busting t=<unix millis> query parameter.
type HTTPSource struct {
	URL    string
	Client *http.Client
	now    func() time.Time
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (s *HTTPSource) Name() string { return "remote" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %s", s.URL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

type gistReader interface {
	GistFile(ctx context.Context, id, filename string) ([]byte, error)
}

// GistSource reads a gist file through the gh CLI, which also covers private gists.
type GistSource struct {
	gh       gistReader
	ID       string
	Filename string
}

func NewGistSource(gh *github.Client, id, filename string) *GistSource {
	return &GistSource{gh: gh, ID: id, Filename: filename}
}

func (s *GistSource) Name() string { return "gist" }

func (s *GistSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.gh.GistFile(ctx, s.ID, s.Filename)
}
