package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions recognised by the front ends.
const (
	SourceExt  = ".pl0"
	LexemeExt  = ".lex"
	ListingExt = ".lst"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource resolves relPath and returns the file contents with its absolute
// path.
func ReadSource(relPath string) (src string, fullPath string, err error) {
	fullPath, _, err = GetPathInfo(relPath)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fullPath, fmt.Errorf("read %s: %w", relPath, err)
	}
	return string(data), fullPath, nil
}

// IsLexemeList reports whether path names a token stream rather than source.
func IsLexemeList(path string) bool {
	return strings.EqualFold(filepath.Ext(path), LexemeExt)
}

// ListingPath derives the listing file name for a source file.
func ListingPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ListingExt
	}
	return strings.TrimSuffix(inPath, ext) + ListingExt
}
