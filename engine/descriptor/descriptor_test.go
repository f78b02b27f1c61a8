package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromFile_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "tex.json", `{"load_type_id": "texture", "data": {"name": "player"}}`)

	d, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "texture", d.TypeID)
	require.JSONEq(t, `{"name": "player"}`, string(d.Data))
}

func TestFromFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := FromFile(filepath.Join(t.TempDir(), "nope.json"))
	var contentErr *ContentError
	require.ErrorAs(t, err, &contentErr)
}

func TestFromFile_MalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.json", `{"load_type_id": `)

	_, err := FromFile(path)
	var contentErr *ContentError
	require.ErrorAs(t, err, &contentErr)
	require.Equal(t, path, contentErr.Path)
}

func TestFromFile_MissingTypeID(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "untyped.json", `{"data": {}}`)

	_, err := FromFile(path)
	var contentErr *ContentError
	require.ErrorAs(t, err, &contentErr)
}

func TestDecode_TargetsLoaderType(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	d := Descriptor{TypeID: "texture", Data: []byte(`{"name": "player"}`)}
	p, err := Decode[payload](d)
	require.NoError(t, err)
	require.Equal(t, "player", p.Name)
}

func TestDecode_EmptyDataYieldsZeroValue(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	p, err := Decode[payload](Descriptor{TypeID: "texture"})
	require.NoError(t, err)
	require.Zero(t, p)
}

func TestDecode_MismatchedContentFails(t *testing.T) {
	t.Parallel()

	type payload struct {
		Count int `json:"count"`
	}

	d := Descriptor{TypeID: "texture", Data: []byte(`{"count": "not a number"}`)}
	_, err := Decode[payload](d)
	require.Error(t, err)
}

func TestDispatchError_NamesKindAndSource(t *testing.T) {
	t.Parallel()

	err := &DispatchError{TypeID: "unknown_kind", Source: "assets/thing.json"}
	require.Contains(t, err.Error(), "unknown_kind")
	require.Contains(t, err.Error(), "assets/thing.json")
}
