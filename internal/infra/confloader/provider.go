package confloader

import "errors"

// ErrReadBytesNotSupported marks the serialization path a map provider
// does not have.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider feeds an in-memory map into koanf, used for defaults and
// test fixtures. koanf accepts either Read or ReadBytes from a
// provider; a map only has the structured form.
type mapProvider map[string]any

// ReadBytes is unsupported; the map has no byte form.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read hands koanf the map as-is.
func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}

