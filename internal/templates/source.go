package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is returned when a template file does not exist.
var ErrNotFound = errors.New("template not found")

const extension = ".html"

// Source reads email templates from a directory. Every call hits the filesystem.
type Source struct {
	fs  afero.Fs
	dir string
}

func NewSource(fs afero.Fs, dir string) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Source{fs: fs, dir: dir}
}

// Load returns the contents of <dir>/<name>.html.
func (s *Source) Load(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name+extension)
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}

	return string(content), nil
}

// LoadLocalized tries <base>.<locale>.html first and falls back to <base>.html.
func (s *Source) LoadLocalized(base, locale string) (string, error) {
	if locale != "" {
		content, err := s.Load(base + "." + locale)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return s.Load(base)
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid template name %q", name)
	}
	return nil
}
