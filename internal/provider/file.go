package provider

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

func init() {
	Register("file", createFileProvider)
}

type fileProvider struct {
	path string
}

func createFileProvider(uri *url.URL, _ *Params) (IRuleProvider, error) {
	path := uri.Path
	if uri.Host != "" {
		// file://relative/path.dat
		path = uri.Host + uri.Path
	}
	if uri.Opaque != "" {
		path = uri.Opaque
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("file provider requires path")
	}
	return NewFileProvider(path), nil
}

func NewFileProvider(path string) IRuleProvider {
	return &fileProvider{path: filepath.Clean(path)}
}

func (p *fileProvider) Name() string {
	return "file:" + p.path
}

func (p *fileProvider) Provide() (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("read ruleset file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", fmt.Errorf("ruleset file %s is empty", p.path)
	}
	return string(data), nil
}
