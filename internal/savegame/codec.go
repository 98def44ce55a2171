package savegame

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
)

// Encode renders a blob as a compact copy-paste string: JSON, gzipped, then
// base64.
func Encode(b Blob) (string, error) {
	raw, err := marshalBlob(b)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses an exported string back into a blob and validates it. The
// caller's stores are never touched here, so a bad import leaves existing
// state intact.
func Decode(s string) (Blob, error) {
	packed, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Blob{}, fmt.Errorf("malformed save: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return Blob{}, fmt.Errorf("malformed save: %w", err)
	}
	raw, err := io.ReadAll(gz)
	if cerr := gz.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Blob{}, fmt.Errorf("malformed save: %w", err)
	}

	b, err := unmarshalBlob(raw)
	if err != nil {
		return Blob{}, err
	}
	if err := b.Validate(); err != nil {
		return Blob{}, err
	}
	return b, nil
}
