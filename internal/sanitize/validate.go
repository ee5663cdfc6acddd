package sanitize

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Validation errors for caller-supplied input.
var (
	// ErrPathTraversal indicates a path contains directory traversal sequences.
	ErrPathTraversal = errors.New("path contains directory traversal")

	// ErrEmptyPath indicates an empty path was provided.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrInvalidID indicates a Trakt id or slug that cannot be placed in a URL path.
	ErrInvalidID = errors.New("invalid Trakt ID")
)

// traktIDPattern accepts numeric Trakt ids, slugs and IMDb ids.
var traktIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-]{0,127}$`)

// ValidatePath cleans path and rejects traversal. When allowedRoot is set
// the result must resolve inside it. The absolute path is returned.
func ValidatePath(path, allowedRoot string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: contains '..'", ErrPathTraversal)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if allowedRoot != "" {
		absRoot, err := filepath.Abs(allowedRoot)
		if err != nil {
			return "", fmt.Errorf("failed to resolve allowed root: %w", err)
		}
		rel, err := filepath.Rel(absRoot, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%w: path escapes allowed root", ErrPathTraversal)
		}
	}

	return absPath, nil
}

// ValidateTraktID checks an id used as a URL path segment. field names the
// argument in the returned error.
func ValidateTraktID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidID, field)
	}
	if !traktIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %s %q must be a Trakt ID, slug or IMDb ID", ErrInvalidID, field, id)
	}
	return nil
}
