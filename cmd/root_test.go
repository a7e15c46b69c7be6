package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/statelens/internal/debugger"
)

const testSession = `{
  "state": {"user": {"name": "ada", "age": 36}, "tags": ["a", "b"]},
  "mutations": [
    {"method": "set", "path": ["user", "age"], "args": [36]},
    {"method": "set", "path": ["tags", 1], "args": ["b"]}
  ],
  "renders": [
    {"start": 1700000000000, "duration": 4, "changes": [{"path": ["user", "age"]}], "components": ["App", "Header"]},
    {"start": 1700000005000, "duration": 12.5, "changes": [{"path": ["tags"]}], "components": ["TagList"]}
  ],
  "statePaths": {
    "user.age": [{"id": 2, "name": "Header", "renderCount": 1}],
    "tags": [{"id": 1, "name": "App", "renderCount": 3}]
  }
}`

func writeSession(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args. A non-empty stdin is treated as
// piped input.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")

	prev := stdinIsPiped
	stdinIsPiped = func() bool { return stdin != "" }
	defer func() { stdinIsPiped = prev }()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func markedLine(t *testing.T, out string) string {
	t.Helper()
	var marked []string
	for _, ln := range strings.Split(out, "\n") {
		if strings.HasPrefix(ln, "* ") {
			marked = append(marked, ln)
		}
	}
	require.Len(t, marked, 1, out)
	return strings.TrimSpace(strings.TrimPrefix(marked[0], "* "))
}

func TestRootPrintsStateWithLastMutationHighlighted(t *testing.T) {
	out, _, err := executeCommand(t, "", writeSession(t, testSession))
	require.NoError(t, err)

	assert.Contains(t, out, "user: { name, age },")
	assert.Equal(t, `"b"`, markedLine(t, out))
}

func TestRootHighlightAndExpandFlags(t *testing.T) {
	path := writeSession(t, testSession)

	out, _, err := executeCommand(t, "", path, "--highlight", "user.name")
	require.NoError(t, err)
	assert.Equal(t, `name: "ada",`, markedLine(t, out))

	out, _, err = executeCommand(t, "", path, "--highlight", "$", "--expand", "user")
	require.NoError(t, err)
	assert.Contains(t, out, "age: 36")

	_, _, err = executeCommand(t, "", path, "--highlight", "user[[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--highlight")
}

func TestRootReadsStdin(t *testing.T) {
	out, _, err := executeCommand(t, testSession, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "ada"`)
}

func TestRootPlainDocumentIsState(t *testing.T) {
	out, _, err := executeCommand(t, "", writeSession(t, `{"a": 1, "b": [true]}`), "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"a": 1`)
}

func TestRootOutputFormats(t *testing.T) {
	path := writeSession(t, testSession)

	out, _, err := executeCommand(t, "", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: ada")
	assert.Contains(t, out, "- b")

	out, _, err = executeCommand(t, "", path, "-o", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "name: ada")
	assert.Contains(t, out, "tags: [a, b]")

	_, _, err = executeCommand(t, "", path, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRootDecode(t *testing.T) {
	path := writeSession(t, `{"state": {"raw": "{\"x\": 1}"}}`)

	out, _, err := executeCommand(t, "", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"raw": "{\"x\": 1}"`)

	out, _, err = executeCommand(t, "", path, "-o", "json", "--decode")
	require.NoError(t, err)
	assert.Contains(t, out, `"x": 1`)
}

func TestRootExpression(t *testing.T) {
	path := writeSession(t, testSession)

	out, _, err := executeCommand(t, "", path, "-e", "_.user.name")
	require.NoError(t, err)
	assert.Equal(t, "ada\n", out)

	out, _, err = executeCommand(t, "", path, "-e", "size(_.tags)")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = executeCommand(t, "", path, "-e", "_.tags.filter(t, t != 'a')")
	require.NoError(t, err)
	assert.Contains(t, out, `"b"`)
	assert.NotContains(t, out, `"a"`)

	_, _, err = executeCommand(t, "", path, "-e", "_.user.")
	require.Error(t, err)
}

func TestRootSnapshot(t *testing.T) {
	out, _, err := executeCommand(t, "", writeSession(t, testSession),
		"--snapshot", "--no-color", "--width", "60", "--height", "14")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 14)
	assert.True(t, strings.HasPrefix(lines[0], "[State]"), lines[0])
	assert.NotContains(t, out, "\x1b[")
}

func TestRootSnapshotEditWritesState(t *testing.T) {
	path := writeSession(t, testSession)
	dest := filepath.Join(t.TempDir(), "state.json")

	_, _, err := executeCommand(t, "", path,
		"--snapshot", "--no-color", "--width", "60", "--height", "14",
		"--can-edit", "--highlight", "user.age",
		"--press", "<CR>", "--press", "<BS><BS>40<CR>",
		"--write", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"age": 40`)
	assert.Contains(t, string(data), `"name": "ada"`)
}

func TestRootWriteSkippedWithoutEdits(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "state.json")
	_, _, err := executeCommand(t, "", writeSession(t, testSession), "--write", dest)
	require.NoError(t, err)
	assert.NoFileExists(t, dest)
}

func TestRootErrors(t *testing.T) {
	_, _, err := executeCommand(t, "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read session")

	_, _, err = executeCommand(t, "", writeSession(t, `{"state": {}, "renders": 3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session")

	_, errOut, err := executeCommand(t, "", writeSession(t, testSession), "--theme", "nope")
	require.Error(t, err)
	assert.Contains(t, errOut, `unknown theme "nope"`)
	assert.Contains(t, errOut, "default theme: dark")
}

func TestRootWithoutInputShowsHelp(t *testing.T) {
	out, _, err := executeCommand(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "statelens [file]")
}

func TestRootConfigFileDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  inspector:\n    expanded: false\n"), 0o600))

	out, _, err := executeCommand(t, "", writeSession(t, `{"a": 1}`), "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "{ a }", strings.TrimSpace(out))

	out, _, err = executeCommand(t, "", writeSession(t, `{"a": 1}`), "--config-file", cfgPath, "--expanded")
	require.NoError(t, err)
	assert.Contains(t, out, "a: 1")
}

func TestRendersCommand(t *testing.T) {
	path := writeSession(t, testSession)

	out, _, err := executeCommand(t, "", "renders", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 renders")
	assert.Contains(t, out, "DURATION")
	assert.Contains(t, out, "12.5ms")
	assert.Contains(t, out, "App, Header")

	out, _, err = executeCommand(t, "", "renders", path, "--component", "tag")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 2 renders")
	assert.Contains(t, out, "TagList")
	assert.NotContains(t, out, "Header")

	out, _, err = executeCommand(t, "", "renders", path, "--where", "render.duration > 10.0")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 2 renders")
	assert.Contains(t, out, "TagList")

	out, _, err = executeCommand(t, "", "renders", path, "--tail", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 renders, records 2-2 of 2")
	assert.NotContains(t, out, "Header")

	_, _, err = executeCommand(t, "", "renders", path, "--limit", "1", "--tail", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, _, err = executeCommand(t, "", "renders", path, "--where", "render.duration")
	require.Error(t, err)
}

func TestStatePathsCommand(t *testing.T) {
	path := writeSession(t, testSession)

	out, _, err := executeCommand(t, "", "statepaths", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 state paths, 2 components")
	assert.Contains(t, out, "Header (1)")
	assert.Less(t, strings.Index(out, "App (3)"), strings.Index(out, "Header (1)"), "ordered by id")

	out, _, err = executeCommand(t, "", "statepaths", path, "--component", "head", "-o", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 Header (1)")
	assert.NotContains(t, out, "#1 App")

	out, _, err = executeCommand(t, "", "statepaths", path, "--path", "tags", "-o", "paths")
	require.NoError(t, err)
	assert.Contains(t, out, "tags")
	assert.Contains(t, out, "#1 App")
	assert.NotContains(t, out, "user.age")

	_, _, err = executeCommand(t, "", "statepaths", path, "-o", "csv")
	require.Error(t, err)
}

func TestVersionThemesAndConfigCommands(t *testing.T) {
	out, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "statelens "), out)

	out, _, err = executeCommand(t, "", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* dark")
	assert.Contains(t, out, "  light")

	out, _, err = executeCommand(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# statelens configuration (embedded defaults)")
	assert.Contains(t, out, "default: dark")
	assert.Contains(t, out, "next_mutation:")
}

func TestPathCandidates(t *testing.T) {
	s, err := debugger.LoadSession([]byte(testSession))
	require.NoError(t, err)

	assert.Equal(t, []string{"user.name\tstring", "user.age\tnumber"}, pathCandidates(s, "user."))
	assert.Equal(t, []string{"tags[0]\tstring", "tags[1]\tstring"}, pathCandidates(s, "tags["))
}

func TestCompleteStatePath(t *testing.T) {
	path := writeSession(t, testSession)
	got, directive := completeStatePath(rootCmd, []string{path}, "ta")
	assert.Equal(t, []string{"tags\tarray, 2 items"}, got)
	assert.NotZero(t, directive&cobra.ShellCompDirectiveNoSpace)

	_, directive = completeStatePath(rootCmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
