// Package source resolves the statement a user asked to map: a literal
// argument, an @file reference, or a set of files matched by glob. It also
// watches a file for changes.
//
// HTML files are converted to Markdown text and Markdown front matter is
// stripped before mapping, so the mapper only ever sees prose.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePrefix marks a command-line argument as a file reference.
const FilePrefix = "@"

// ErrNotFound is returned (wrapped) when a referenced file does not exist.
var ErrNotFound = errors.New("file not found")

// Statement is resolved input text.
type Statement struct {
	// Origin is the file path the text came from, or empty for a literal.
	Origin string
	// Title is the document title, when the file declares one.
	Title string
	// Text is the statement to map.
	Text string
}

// Resolve interprets a command-line argument. "@path" reads the file at path;
// anything else is the statement itself, verbatim.
func Resolve(arg string) (*Statement, error) {
	if !strings.HasPrefix(arg, FilePrefix) {
		return &Statement{Text: arg}, nil
	}
	path := strings.TrimPrefix(arg, FilePrefix)
	if path == "" {
		return nil, fmt.Errorf("empty file reference %q", arg)
	}
	return ReadFile(path)
}

// ReadFile loads a statement from disk, converting it according to its
// extension.
func ReadFile(path string) (*Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(path, data)
}

// FromBytes converts file content into a statement. The extension of name
// selects the conversion; unknown extensions are taken as plain text.
func FromBytes(name string, data []byte) (*Statement, error) {
	stmt := &Statement{Origin: name}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		converted, err := defaultConverter.Convert(data)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", name, err)
		}
		stmt.Title = converted.Title
		stmt.Text = converted.Markdown
	case ".md", ".markdown":
		fm, body := splitFrontMatter(string(data))
		stmt.Title = fm.Title
		stmt.Text = body
	default:
		stmt.Text = string(data)
	}
	return stmt, nil
}

// ContentHash returns a hex sha256 of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
