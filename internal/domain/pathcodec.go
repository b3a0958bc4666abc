package domain

import (
	"path"
	"strings"
)

const (
	// DocumentName is the file that holds a page's content inside its folder
	DocumentName = "index.md"
	// FolderMarkerName is the empty blob that keeps an otherwise empty folder alive
	FolderMarkerName = ".gitkeep"
)

// ToStoragePath maps a logical page path to the storage path of its document.
// ["guide", "install"] -> "guide/install/index.md"
func ToStoragePath(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", invalidPath("", "empty logical path")
	}
	if err := validateSegments(segments); err != nil {
		return "", err
	}
	return strings.Join(segments, "/") + "/" + DocumentName, nil
}

// IsDocument reports whether the final component of p is exactly index.md
func IsDocument(p string) bool {
	return path.Base(p) == DocumentName && !strings.HasSuffix(p, "/")
}

// ParentLogicalPath strips the trailing index.md from a storage path and
// splits the remainder into segments. "index.md" yields the empty sequence.
func ParentLogicalPath(storagePath string) ([]string, error) {
	if !IsDocument(storagePath) {
		return nil, invalidPath(storagePath, "not a document path")
	}
	if err := checkShape(storagePath); err != nil {
		return nil, err
	}

	rest := strings.TrimSuffix(storagePath, DocumentName)
	if rest == "" {
		return []string{}, nil
	}
	segments := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	if err := validateSegments(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// FolderMarkerPath returns the path of the placeholder blob for a folder
func FolderMarkerPath(segments []string) (string, error) {
	if len(segments) == 0 {
		return "", invalidPath("", "empty folder path")
	}
	if err := validateSegments(segments); err != nil {
		return "", err
	}
	return strings.Join(segments, "/") + "/" + FolderMarkerName, nil
}

// IsFolderMarker reports whether p names a placeholder marker blob
func IsFolderMarker(p string) bool {
	return path.Base(p) == FolderMarkerName && !strings.HasSuffix(p, "/")
}

// FolderOfMarker returns the logical folder path that a marker blob keeps alive
func FolderOfMarker(markerPath string) ([]string, error) {
	if !IsFolderMarker(markerPath) {
		return nil, invalidPath(markerPath, "not a folder marker")
	}
	if err := checkShape(markerPath); err != nil {
		return nil, err
	}
	rest := strings.TrimSuffix(strings.TrimSuffix(markerPath, FolderMarkerName), "/")
	if rest == "" {
		return nil, invalidPath(markerPath, "marker at repository root")
	}
	segments := strings.Split(rest, "/")
	if err := validateSegments(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// ValidateSegment checks a single name used for a new page or folder
func ValidateSegment(name string) error {
	switch {
	case name == "":
		return invalidPath(name, "empty segment")
	case strings.Contains(name, "/"):
		return invalidPath(name, "segment contains '/'")
	case name == "." || name == "..":
		return invalidPath(name, "relative segment")
	case name == DocumentName:
		return invalidPath(name, "segment is reserved for page content")
	case name == FolderMarkerName:
		return invalidPath(name, "segment is reserved for folder markers")
	case strings.HasPrefix(name, "."):
		// Dot entries such as .git and .github are not pages in any store
		return invalidPath(name, "hidden segment")
	}
	return nil
}

// SplitLogicalPath parses user input such as "guide/install" into segments.
// It is strict: empty segments and leading or trailing slashes are rejected.
func SplitLogicalPath(p string) ([]string, error) {
	if p == "" {
		return nil, invalidPath(p, "empty logical path")
	}
	if err := checkShape(p); err != nil {
		return nil, err
	}
	segments := strings.Split(p, "/")
	if err := validateSegments(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// JoinLogicalPath renders segments the way users type them
func JoinLogicalPath(segments []string) string {
	return strings.Join(segments, "/")
}

func validateSegments(segments []string) error {
	for _, s := range segments {
		if err := ValidateSegment(s); err != nil {
			return invalidPath(strings.Join(segments, "/"), err.(*PathError).Reason)
		}
	}
	return nil
}

func checkShape(p string) error {
	switch {
	case strings.HasPrefix(p, "/"):
		return invalidPath(p, "leading slash")
	case strings.HasSuffix(p, "/"):
		return invalidPath(p, "trailing slash")
	case strings.Contains(p, "//"):
		return invalidPath(p, "empty segment")
	}
	for _, s := range strings.Split(p, "/") {
		if s == "." || s == ".." {
			return invalidPath(p, "relative segment")
		}
	}
	return nil
}
