package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowc/internal/logger"
)

const fixtureSource = `package workflows

// @step execute
// @input userID
// @step onSuccess
// @step onFailure
// @output user
func FetchUser(execute bool, userID string) (onSuccess bool, onFailure bool, user string) {
	return execute, !execute, "u-" + userID
}

// @node n1 FetchUser
// @connect Start.execute -> n1.execute
// @connect n1.onSuccess -> Exit.onSuccess
// @connect n1.user -> Exit.user
// @input userID
// @output user
func ProcessOrder(userID string) (user string) {
	return ""
}
`

func newTestApp(t *testing.T) *AppContext {
	t.Helper()
	log, err := logger.New(logger.Options{Level: "error"})
	require.NoError(t, err)
	return &AppContext{Logger: log}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.go")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSource), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newTestApp(t)
	root := newRootCmd(app)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestParseCommandReportsWorkflowAndNodeType(t *testing.T) {
	t.Parallel()
	path := writeFixture(t)
	out, err := execute(t, "parse", path)
	require.NoError(t, err)
	require.Contains(t, out, "workflows: 1, node types: 1")
	require.Contains(t, out, "ProcessOrder")
}

func TestValidateCommandSucceedsOnCleanWorkflow(t *testing.T) {
	t.Parallel()
	path := writeFixture(t)
	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	require.Contains(t, out, "ProcessOrder: 0 errors")
}

func TestValidateCommandFailsOnUnknownNodeType(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.go")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSourceWithBadNode()), 0o644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)
}

func fixtureSourceWithBadNode() string {
	return `package workflows

// @node n1 MissingType
// @connect Start.execute -> n1.execute
// @connect n1.onSuccess -> Exit.onSuccess
// @input userID
// @output user
func ProcessOrder(userID string) (user string) {
	return ""
}
`
}

func TestGenerateCommandPrintsCompiledProcedure(t *testing.T) {
	t.Parallel()
	path := writeFixture(t)
	out, err := execute(t, "generate", path)
	require.NoError(t, err)
	require.Contains(t, out, "func WorkflowProcessOrder(")
}

func TestAnnotationsCommandRequiresWorkflowFlag(t *testing.T) {
	t.Parallel()
	path := writeFixture(t)
	_, err := execute(t, "annotations", path)
	require.Error(t, err)
}

func TestAnnotationsCommandPrintsRegeneratedLines(t *testing.T) {
	t.Parallel()
	path := writeFixture(t)
	out, err := execute(t, "annotations", path, "--workflow", "ProcessOrder")
	require.NoError(t, err)
	require.Contains(t, out, "@input userID")
}

func TestInspectGrammarPrintsEveryProduction(t *testing.T) {
	t.Parallel()
	out, err := execute(t, "inspect", "--grammar")
	require.NoError(t, err)
	require.Contains(t, out, "@node ::=")
	require.Contains(t, out, "@connect ::=")
}
