// Package batch drives translation of many Swift files: discovery, bounded
// parallel translation, drift checks against existing output and the run
// summary.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// swiftLanguage is the enry language name for Swift sources.
const swiftLanguage = "Swift"

// dependencyDirs are dependency manager checkouts that enry's vendor
// rules do not cover.
var dependencyDirs = map[string]bool{
	"Pods":     true,
	"Carthage": true,
	".build":   true,
}

var (
	// ErrNoSources indicates no Swift file was found under the given paths.
	ErrNoSources = errors.New("no swift sources found")
	// ErrEmptyPath indicates a path argument was empty.
	ErrEmptyPath = errors.New("path is empty")
)

// Source is one Swift file to translate. Name is relative to the root the
// file was found under and determines the output path.
type Source struct {
	Path    string
	Name    string
	Content []byte
}

// Collect expands files and directories into Swift sources, sorted by name.
// Directories are walked recursively; vendored and hidden directories are
// skipped. Explicit file arguments are taken as given.
func Collect(paths []string) ([]Source, error) {
	var out []Source

	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			return nil, ErrEmptyPath
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			content, readErr := os.ReadFile(filepath.Clean(path))
			if readErr != nil {
				return nil, fmt.Errorf("read %s: %w", path, readErr)
			}

			out = append(out, Source{Path: path, Name: filepath.Base(path), Content: content})

			continue
		}

		found, walkErr := walkDir(path)
		if walkErr != nil {
			return nil, walkErr
		}

		out = append(out, found...)
	}

	if len(out) == 0 {
		return nil, ErrNoSources
	}

	slices.SortStableFunc(out, func(a, b Source) int { return strings.Compare(a.Name, b.Name) })

	return out, nil
}

func walkDir(root string) ([]Source, error) {
	var out []Source

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		if entry.IsDir() {
			if path != root && skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() || enry.IsVendor(rel) {
			return nil
		}

		// Cheap filename check first; content is only read for candidates.
		if enry.GetLanguage(entry.Name(), nil) != swiftLanguage {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}

		if enry.GetLanguage(entry.Name(), content) != swiftLanguage {
			return nil
		}

		out = append(out, Source{Path: path, Name: rel, Content: content})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return out, nil
}

func skipDir(name, rel string) bool {
	return strings.HasPrefix(name, ".") || dependencyDirs[name] || enry.IsVendor(rel+"/")
}
