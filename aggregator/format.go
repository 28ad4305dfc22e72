package aggregator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultExtension is the source file type collected when none is configured
	DefaultExtension = ".dart"

	entrySeparator = "\n\n"
)

// ErrInvalidUTF8 is returned when a source file is not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// NormalizeExtension accepts "dart" or ".dart" and returns ".dart".
// An empty value yields DefaultExtension.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DefaultConsolidatedName returns "all_<ext>_files.txt" for an extension
func DefaultConsolidatedName(ext string) string {
	return "all_" + strings.TrimPrefix(NormalizeExtension(ext), ".") + "_files.txt"
}

// FolderHeader is the line preceding a file in its folder output
func FolderHeader(filename string) string {
	return fmt.Sprintf("--- Content of %s ---\n", filename)
}

// ConsolidatedHeader is the line preceding a file in the consolidated output
func ConsolidatedHeader(filename, folder string) string {
	return fmt.Sprintf("--- Content of %s in folder %s ---\n", filename, folder)
}

// writeEntry writes header, content and the blank-line separator
func writeEntry(w io.Writer, header string, content []byte) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	_, err := io.WriteString(w, entrySeparator)
	return err
}

// readSource reads a source file as UTF-8 text with line endings
// normalised to "\n".
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode %s: %w", path, ErrInvalidUTF8)
	}
	if bytes.IndexByte(data, '\r') < 0 {
		return data, nil
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n")), nil
}
