// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textenc decodes and encodes file content under an explicitly declared
// text encoding. It never guesses: content that does not decode cleanly is an error.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var (
	// ErrDecode is returned when content is not valid under the declared encoding
	ErrDecode = errors.New("content does not decode under the declared encoding")

	// ErrEncode is returned when text cannot be represented in the declared encoding
	ErrEncode = errors.New("text cannot be encoded under the declared encoding")

	// ErrUnknownEncoding is returned for encoding names that are not recognized
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// UTF8 is the canonical name of the UTF-8 codec
const UTF8 = "utf-8"

// 🔤 Codec converts between file bytes and in-memory text
type Codec interface {
	// Name returns the declared encoding name
	Name() string

	// Decode converts raw file bytes to text
	Decode(data []byte) (string, error)

	// Encode converts text back to raw file bytes
	Encode(s string) ([]byte, error)
}

// 🎯 Lookup returns the codec for an encoding name. The name is required.
func Lookup(name string) (Codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil, errors.Errorf("encoding must be declared: %w", ErrUnknownEncoding)
	}
	if n == UTF8 || n == "utf8" {
		return utf8Codec{}, nil
	}

	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil || enc == nil {
		return nil, errors.Errorf("%q: %w", name, ErrUnknownEncoding)
	}
	return &xCodec{name: n, enc: enc}, nil
}

// utf8Codec validates UTF-8 and passes bytes through unchanged
type utf8Codec struct{}

func (utf8Codec) Name() string { return UTF8 }

func (utf8Codec) Decode(data []byte) (string, error) {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", errors.Errorf("%s: %v: %w", UTF8, err, ErrDecode)
	}
	return string(data), nil
}

func (utf8Codec) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errors.Errorf("%s: invalid UTF-8 text: %w", UTF8, ErrEncode)
	}
	return []byte(s), nil
}

// xCodec wraps a golang.org/x/text encoding. Decoding must round-trip: bytes that only
// decode to replacement characters are rejected rather than silently rewritten.
type xCodec struct {
	name string
	enc  encoding.Encoding
}

func (c *xCodec) Name() string { return c.name }

func (c *xCodec) Decode(data []byte) (string, error) {
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Errorf("%s: %v: %w", c.name, err, ErrDecode)
	}
	back, err := c.enc.NewEncoder().Bytes(out)
	if err != nil || !bytes.Equal(back, data) {
		return "", errors.Errorf("%s: content does not round-trip: %w", c.name, ErrDecode)
	}
	return string(out), nil
}

func (c *xCodec) Encode(s string) ([]byte, error) {
	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("%s: %v: %w", c.name, err, ErrEncode)
	}
	return out, nil
}
