package task

import (
	"bytes"
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is how much of a file is inspected for NUL bytes.
const sniffLen = 8000

// loadPreview reads path and returns its lines when the content is text.
// The second result is false for binary content.
func loadPreview(ctx context.Context, path string) ([]string, bool, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, false, invalidTarget(path)
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, false, fileOp("preview", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	text, ok := decodeText(data)
	if !ok {
		return nil, false, nil
	}
	return splitLines(text), true, nil
}

// decodeText classifies data by its bytes: a UTF-16 or UTF-8 byte order mark
// selects the decoding, otherwise data must be valid UTF-8 without NUL bytes.
func decodeText(data []byte) (string, bool) {
	if hasBOM(data) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil || !utf8.Valid(decoded) {
			return "", false
		}
		return string(decoded), true
	}
	if bytes.IndexByte(data[:min(len(data), sniffLen)], 0) >= 0 {
		return "", false
	}
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\r")
		lines[i] = strings.ReplaceAll(l, "\t", "    ")
	}
	return lines
}
