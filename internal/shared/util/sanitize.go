package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
// Names without an extension get defaultExt appended.
func SanitizeFileName(name, defaultExt string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\"", "")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if filepath.Ext(s) == "" && defaultExt != "" {
		s += defaultExt
	}
	return s, nil
}
