package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Client shells out to the gh CLI so private gists work with the user's
// existing gh authentication.
type Client struct {
	logger *slog.Logger
	bin    string
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{logger: logger, bin: "gh"}
}

// RawGistURL is the unauthenticated raw URL of a public gist file.
func RawGistURL(user, id, filename string) string {
	return fmt.Sprintf("https://gist.githubusercontent.com/%s/%s/raw/%s", user, id, filename)
}

// GistFile returns the raw content of one file in a gist.
func (c *Client) GistFile(ctx context.Context, id, filename string) ([]byte, error) {
	if id == "" {
		return nil, errors.New("gist id required")
	}
	args := []string{"gist", "view", id, "--raw"}
	if filename != "" {
		args = append(args, "--filename", filename)
	}

	out, err := c.gh(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("view gist %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) gh(ctx context.Context, args ...string) ([]byte, error) {
	c.logger.Debug("gh", "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, c.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}
