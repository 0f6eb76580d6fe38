// Package upload turns user files into practice text.
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxSize caps the bytes read from an uploaded file.
const MaxSize = 8 << 20

// UnsupportedText is shown in place of content for files that cannot be used.
const UnsupportedText = "Unsupported file. Please choose a text, image or PDF file."

// ErrUnsupported is returned for files that are neither text nor
// transcribable.
var ErrUnsupported = errors.New("unsupported file type")

// ErrEmpty is returned for text files with nothing to type.
var ErrEmpty = errors.New("upload is empty")

// Transcriber extracts text from binary files. It reports failures as
// placeholder text.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) string
}

var plainTextExt = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".json": true, ".yaml": true, ".yml": true,
	".toml": true, ".xml": true, ".html": true, ".css": true, ".js": true, ".ts": true,
	".py": true, ".go": true, ".rs": true, ".java": true, ".c": true, ".h": true,
	".cpp": true, ".sh": true, ".sql": true, ".rb": true,
}

// IsPlainText reports whether a file can be read directly rather than
// transcribed, judged by MIME type or file extension.
func IsPlainText(mimeType, name string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	if strings.HasPrefix(base, "text/") || base == "application/json" || base == "application/xml" {
		return true
	}
	return plainTextExt[strings.ToLower(filepath.Ext(name))]
}

// Transcribable reports whether the remote service accepts the MIME type.
func Transcribable(mimeType string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	return strings.HasPrefix(base, "image/") || strings.HasPrefix(base, "audio/") || base == "application/pdf"
}

// DetectMIME guesses a MIME type from the extension, then from the content.
func DetectMIME(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// Read loads practice text from path. Plain-text files are read directly;
// images and PDFs go through tr.
func Read(ctx context.Context, path string, tr Transcriber) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(file, MaxSize))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	mimeType := DetectMIME(path, data)
	switch {
	case IsPlainText(mimeType, path):
		return ReadText(strings.NewReader(string(data)))
	case Transcribable(mimeType) && tr != nil:
		return tr.Transcribe(ctx, data, mimeType), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
}

// ReadText normalizes plain text: trailing spaces are trimmed from every line
// and blank lines at either end are dropped.
func ReadText(r io.Reader) (string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to scan upload: %w", err)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return "", ErrEmpty
	}
	return strings.Join(lines, "\n"), nil
}
