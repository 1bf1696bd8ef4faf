package genopts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsZeroValue(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(Options{}))
}

func TestValidateRejectsUnknownModuleFormat(t *testing.T) {
	t.Parallel()
	err := Validate(Options{ModuleFormat: "wasm"})
	require.Error(t, err)
}

func TestValidateAcceptsKnownModuleFormats(t *testing.T) {
	t.Parallel()
	require.NoError(t, Validate(Options{ModuleFormat: FormatESM}))
	require.NoError(t, Validate(Options{ModuleFormat: FormatCJS}))
}

func TestValidateRejectsEmptyExternalNodeTypeEntry(t *testing.T) {
	t.Parallel()
	err := Validate(Options{ExternalNodeTypes: map[string]string{"Fetch": ""}})
	require.Error(t, err)
}

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	t.Parallel()
	o, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Options{}, o)
}

func TestLoadParsesYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "flowc.yaml")
	content := "production: true\nstrictTypes: true\nmoduleFormat: esm\nexternalRuntimePath: github.com/acme/runtime\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o, err := Load(path)
	require.NoError(t, err)
	require.True(t, o.Production)
	require.True(t, o.StrictTypes)
	require.Equal(t, FormatESM, o.ModuleFormat)
	require.Equal(t, "github.com/acme/runtime", o.ExternalRuntimePath)
}

func TestLoadRejectsInvalidModuleFormat(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "flowc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moduleFormat: wasm\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
