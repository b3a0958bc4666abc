package web

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"confluenz/internal/ports"
)

// Opener implements ports.PageOpener by handing a page URL to the system
// browser
type Opener struct {
	base *url.URL
	run  func(uri string) error
}

var _ ports.PageOpener = (*Opener)(nil)

// NewGitHubOpener opens pages on the repository's web view. host is the
// GitHub web root; empty means github.com.
func NewGitHubOpener(host, repository, branch string) (*Opener, error) {
	if host == "" {
		host = "https://github.com"
	}
	base, err := url.Parse(strings.TrimSuffix(host, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid host %q: %w", host, err)
	}
	base = base.JoinPath(repository, "blob", branch)
	return &Opener{base: base, run: openURI}, nil
}

// NewFileOpener opens pages of a local wiki directory as files
func NewFileOpener(dir string) (*Opener, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return &Opener{base: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, run: openURI}, nil
}

// OpenPage opens the page stored at storagePath
func (o *Opener) OpenPage(storagePath string) error {
	return o.run(o.BuildURL(storagePath))
}

// BuildURL returns the address of the page stored at storagePath
func (o *Opener) BuildURL(storagePath string) string {
	return o.base.JoinPath(strings.Split(storagePath, "/")...).String()
}

func openURI(uri string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", uri)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
