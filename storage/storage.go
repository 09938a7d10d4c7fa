// Package storage persists uploaded files before they are ingested and reads
// them back as text.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FileStore saves upload content under a name and returns the location it can
// be opened from. Remove deletes a saved upload that no note refers to.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Remove(ctx context.Context, location string) error
}

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrInvalidText = errors.New("file is not valid UTF-8 text")
)

// GenerateName prefixes the sanitized original name with a ULID, which sorts
// by upload time and does not collide across concurrent uploads.
func GenerateName(original string) string {
	return ulid.Make().String() + "-" + SanitizeName(original)
}

// SanitizeName strips directories and replaces characters that are unsafe in
// file system paths or object keys.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	clean := strings.Trim(b.String(), ".")
	if clean == "" {
		return "upload"
	}
	return clean
}

// DecodeText reads the whole file as text. UTF-16 input with a byte order mark
// is converted, a UTF-8 BOM is dropped and the result is NFC normalized.
func DecodeText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode file: %w", err)
	}
	if !utf8.Valid(decoded) {
		return "", ErrInvalidText
	}

	text := norm.NFC.String(string(decoded))
	if len(bytes.TrimSpace([]byte(text))) == 0 {
		return "", ErrEmptyFile
	}
	return text, nil
}

// ReadText opens a stored file and decodes it
func ReadText(ctx context.Context, store FileStore, location string) (string, error) {
	rc, err := store.Open(ctx, location)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return DecodeText(rc)
}
