// Package descriptor handles external JSON descriptor files: the tagged
// envelope format every loadable asset is declared in, and the dispatch of a
// descriptor's declared kind string to the loader responsible for it.
package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Conventional path fragments for descriptor files. Callers assemble full
// paths from these; the engine core treats paths as opaque strings.
const (
	// AssetDir is the conventional root directory for descriptor files.
	AssetDir = "assets"

	// ScenesDir is the conventional subdirectory for scene descriptors.
	ScenesDir = "scenes"

	// JSONExt is the file extension for descriptor files.
	JSONExt = ".json"
)

// Descriptor is the tagged envelope every descriptor file carries: a kind
// string identifying which loader owns the content, and the raw content
// itself. The engine core never interprets Data; loaders decode it.
type Descriptor struct {
	// TypeID is the kind string dispatched on (e.g., "texture", "transform").
	TypeID string `json:"load_type_id"`

	// Data is the loader-specific content, left undecoded until dispatch.
	Data json.RawMessage `json:"data"`
}

// DispatchError reports a descriptor whose kind string did not match any
// registered loader. Lookups never fall back to a silent default.
type DispatchError struct {
	// TypeID is the unrecognized kind string.
	TypeID string

	// Source identifies where the descriptor came from, typically a file path.
	Source string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("descriptor: no loader registered for type %q (from %s)", e.TypeID, e.Source)
}

// ContentError reports a descriptor file that could not be read or whose
// content was invalid.
type ContentError struct {
	// Path is the descriptor file path.
	Path string

	// Err is the underlying read or decode error.
	Err error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("descriptor: invalid content in %s: %v", e.Path, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// FromFile reads and parses a descriptor envelope from a file.
//
// Parameters:
//   - path: the descriptor file path
//
// Returns:
//   - Descriptor: the parsed envelope
//   - error: a *ContentError if the file cannot be read or parsed, or declares no type ID
func FromFile(path string) (Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, &ContentError{Path: path, Err: err}
	}

	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return Descriptor{}, &ContentError{Path: path, Err: err}
	}
	if d.TypeID == "" {
		return Descriptor{}, &ContentError{Path: path, Err: fmt.Errorf("missing load_type_id")}
	}
	return d, nil
}

// Decode unmarshals a descriptor's content into a loader-specific type.
//
// Parameters:
//   - d: the descriptor whose Data is decoded
//
// Returns:
//   - T: the decoded content
//   - error: error if the content does not match the target type
func Decode[T any](d Descriptor) (T, error) {
	var v T
	if len(d.Data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(d.Data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %q descriptor: %w", d.TypeID, err)
	}
	return v, nil
}
