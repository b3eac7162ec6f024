// Package corpus loads seed sentences and their weights from disk.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat represents the supported corpus file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // <weight>\t<sentence> per line
	FormatTOML               // [[entry]] tables
)

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Corpus",
		Extensions:  []string{".txt", ".tsv"},
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Corpus",
		Extensions:  []string{".toml"},
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFile checks that filename exists, is a regular file and has a known format.
func ValidateFile(filename string) (FileFormat, error) {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return FormatUnknown, fmt.Errorf("%s is a directory", filename)
	}
	format := DetectFormat(filename)
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("file %s has unsupported extension %q", filename, filepath.Ext(filename))
	}
	return format, nil
}
