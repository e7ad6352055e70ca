package pagesplice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when a family declares none.
const DefaultEncoding = "utf-8"

// Document is a page read from storage.
type Document struct {
	Path     string
	Encoding string
	Raw      []byte // bytes as stored
	Text     string // decoded text the engine works on
}

// codec converts between stored bytes and text. A nil encoding passes
// UTF-8 bytes through untouched, so invalid sequences survive a round trip.
type codec struct {
	name string
	enc  encoding.Encoding
}

// newCodec resolves a WHATWG encoding label (utf-8, windows-1252, latin1,
// shift_jis, ...).
func newCodec(label string) (*codec, error) {
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if name == "utf-8" {
		return &codec{name: name}, nil
	}
	return &codec{name: name, enc: enc}, nil
}

func (c *codec) decode(raw []byte) (string, error) {
	if c.enc == nil {
		return string(raw), nil
	}
	b, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, c.name, err)
	}
	return string(b), nil
}

func (c *codec) encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	b, err := encoding.HTMLEscapeUnsupported(c.enc.NewEncoder()).Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, c.name, err)
	}
	return b, nil
}

// ReadDocument reads and decodes the document at path.
// A missing file yields ErrDocumentNotFound.
func ReadDocument(path, encodingLabel string) (*Document, error) {
	c, err := newCodec(encodingLabel)
	if err != nil {
		return nil, err
	}
	return readDocument(path, c)
}

func readDocument(path string, c *codec) (*Document, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the configured document list
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	text, err := c.decode(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Encoding: c.name, Raw: raw, Text: text}, nil
}
