package shell

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// lookupCharset resolves an IANA charset name. UTF-8 (and the empty string)
// need no transformation and resolve to nil.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("resolve charset %q: %w", name, err)
	}

	if enc == nil {
		return nil, fmt.Errorf("charset %q has no decoder", name)
	}

	return enc, nil
}

// decodeOutput decodes captured bytes into a UTF-8 string, trimming a single
// trailing newline.
func (c *Command) decodeOutput(b []byte) (string, error) {
	if c.encoding == nil {
		return strings.TrimSuffix(string(b), "\n"), nil
	}

	decoded, err := c.encoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode output as %q: %w", c.charset, err)
	}

	return strings.TrimSuffix(string(decoded), "\n"), nil
}
