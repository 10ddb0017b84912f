package github

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(bin string) *Client {
	c := NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.bin = bin
	return c
}

func TestRawGistURL(t *testing.T) {
	assert.Equal(t,
		"https://gist.githubusercontent.com/octocat/abc123/raw/performance-data.json",
		RawGistURL("octocat", "abc123", "performance-data.json"))
}

func TestGistFile_RequiresID(t *testing.T) {
	_, err := testClient("gh").GistFile(context.Background(), "", "data.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gist id required")
}

func TestGistFile_MissingBinary(t *testing.T) {
	_, err := testClient("/nonexistent/gh").GistFile(context.Background(), "abc123", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view gist abc123")
}

func TestGistFile_CommandFails(t *testing.T) {
	_, err := testClient("false").GistFile(context.Background(), "abc123", "data.json")
	assert.Error(t, err)
}
