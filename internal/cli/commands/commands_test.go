package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const greeterSource = `package demo

/** Says hello. */
class Greeter(val name: String) {
    fun greet() = "Hello, $name"
}

fun main() {
    val g = Greeter("world")
    println(g.greet())
}
`

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command over fs with the project at /proj
func run(t *testing.T, fs afero.Fs, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(fs)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"-C", "/proj", "--no-color"}, args...))

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj", 0o755))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestVersionCommand(t *testing.T) {
	res := run(t, newFs(t, nil), "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "kastree version")
	assert.Contains(t, res.stdout, Version)
	assert.Contains(t, res.stdout, "Go version")
}

func TestParseCommand(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Main.kt": "val x = 1\n"})

	res := run(t, fs, "", "parse", "Main.kt")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "File\n"))
	assert.Contains(t, res.stdout, "Property")
	assert.Contains(t, res.stdout, `Name: "x"`)
}

func TestParseCommand_Script(t *testing.T) {
	res := run(t, newFs(t, nil), "println(1 + 2)\n", "parse", "--script", "-")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Script\n"))
	assert.Contains(t, res.stdout, "ExprStmt")

	fs := newFs(t, map[string]string{"/proj/build.kts": "println(1)\n"})
	res = run(t, fs, "", "parse", "build.kts")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Script\n"))

	res = run(t, newFs(t, nil), "println(1)\n", "parse", "-")
	require.Error(t, res.err)
}

func TestParseCommand_GoSyntax(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Main.kt": "val x = 1\n"})

	res := run(t, fs, "", "dump", "--go", "Main.kt")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Property")
	assert.Contains(t, res.stdout, `"x"`)
}

func TestParseCommand_Extras(t *testing.T) {
	res := run(t, newFs(t, nil), "// hello\nval x = 1\n", "parse", "--extras", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"// hello"`)
	assert.Contains(t, res.stdout, "<stdin>:1:1 before")
}

func TestParseCommand_SyntaxError(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Bad.kt": "fun (\n"})

	res := run(t, fs, "", "parse", "Bad.kt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "Bad.kt")
	assert.Contains(t, res.stderr, "Bad.kt:1:")
	assert.Empty(t, res.stdout)
}

func TestParseCommand_MissingFile(t *testing.T) {
	res := run(t, newFs(t, nil), "", "parse", "Missing.kt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to read Missing.kt")
}

func TestCheckCommand(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Main.kt":          greeterSource,
		"/proj/src/Util.kts":     "println(1)\n",
		"/proj/build/Gen.kt":     "fun (\n",
		"/proj/.gradle/Cache.kt": "fun (\n",
		"/proj/README.md":        "fun (\n",
	})

	res := run(t, fs, "", "check", "--round-trip")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "2 file(s) checked, no errors")
}

func TestCheckCommand_Errors(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Main.kt":    greeterSource,
		"/proj/src/Bad.kt": "class {\n",
	})

	res := run(t, fs, "", "check")
	require.Error(t, res.err)
	assert.Equal(t, "found 1 error(s)", res.err.Error())
	assert.Contains(t, res.stderr, "src/Bad.kt:1:")
	assert.Contains(t, res.stderr, "1 error(s)")
}

func TestCheckCommand_JSON(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Bad.kt": "fun (\n"})

	res := run(t, fs, "", "check", "--json")
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, `"status": "error"`)
	assert.Contains(t, res.stdout, `"error_count": 1`)
	assert.Contains(t, res.stdout, `"file": "Bad.kt"`)
	assert.Contains(t, res.stdout, `"fun ("`)
}

func TestCheckCommand_ProjectExcludes(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/kastree.yml":    "sources:\n  exclude: [generated]\n",
		"/proj/Main.kt":        "val x = 1\n",
		"/proj/generated/A.kt": "fun (\n",
	})

	res := run(t, fs, "", "check")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1 file(s) checked")
}

func TestCheckCommand_NoSources(t *testing.T) {
	res := run(t, newFs(t, map[string]string{"/proj/notes.txt": "hi"}), "", "check")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "no Kotlin source files found")
}

func TestCheckCommand_OutsideWorkingDirectory(t *testing.T) {
	fs := newFs(t, map[string]string{"/other/A.kt": "val x = 1\n"})

	res := run(t, fs, "", "check", "../other")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "outside working directory")
}

func TestFormatCommand_Preview(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Main.kt": "val  x  =  1\n",
		"/proj/Ok.kt":   "val y = 2\n",
	})

	res := run(t, fs, "", "format")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "=== Main.kt ===")
	assert.Contains(t, res.stdout, "+ val x = 1")
	assert.Contains(t, res.stdout, "✓ Ok.kt (no changes)")
	assert.Contains(t, res.stdout, "Run 'kastree format --write' to apply changes")
	assert.Equal(t, "val  x  =  1\n", readFile(t, fs, "/proj/Main.kt"))
}

func TestFormatCommand_Write(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Main.kt": "val  x  =  1\n"})

	res := run(t, fs, "", "format", "--write")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Main.kt formatted")
	assert.Equal(t, "val x = 1\n", readFile(t, fs, "/proj/Main.kt"))

	res = run(t, fs, "", "format", "--check")
	require.NoError(t, res.err)
}

func TestFormatCommand_Check(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Main.kt": "val  x  =  1\n"})

	res := run(t, fs, "", "format", "--check", "Main.kt")
	require.Error(t, res.err)
	assert.Equal(t, "files need formatting", res.err.Error())
	assert.Contains(t, res.stderr, "✗ Main.kt needs formatting")
	assert.Equal(t, "val  x  =  1\n", readFile(t, fs, "/proj/Main.kt"))
}

func TestFormatCommand_ConfigPrecedence(t *testing.T) {
	source := "fun f() {\n    g()\n}\n"

	t.Run("project config", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"/proj/kastree.yml": "format:\n  indent_size: 2\n",
			"/proj/Main.kt":     source,
		})
		require.NoError(t, run(t, fs, "", "format", "--write").err)
		assert.Equal(t, "fun f() {\n  g()\n}\n", readFile(t, fs, "/proj/Main.kt"))
	})

	t.Run("format file wins", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"/proj/kastree.yml":         "format:\n  indent_size: 2\n",
			"/proj/.kastree-format.yml": "format:\n  use_tabs: true\n",
			"/proj/Main.kt":             source,
		})
		require.NoError(t, run(t, fs, "", "format", "--write").err)
		assert.Equal(t, "fun f() {\n\tg()\n}\n", readFile(t, fs, "/proj/Main.kt"))
	})
}

func TestFormatCommand_ParseError(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/Bad.kt":  "fun (\n",
		"/proj/Good.kt": "val x = 1\n",
	})

	res := run(t, fs, "", "format")
	require.Error(t, res.err)
	assert.Equal(t, "1 files had errors", res.err.Error())
	assert.Contains(t, res.stderr, "Bad.kt:1:")
	assert.Contains(t, res.stdout, "✓ Good.kt (no changes)")
}

func TestSymbolsCommand(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Main.kt": greeterSource})

	res := run(t, fs, "", "symbols", "Main.kt")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[2], "Greeter"))
	assert.Contains(t, lines[2], "class Greeter(val name: String)")
	assert.True(t, strings.HasPrefix(lines[3], "  greet"))
	assert.Contains(t, lines[3], "method")
	assert.True(t, strings.HasPrefix(lines[4], "main"))
	assert.Contains(t, lines[4], "function")
}

func TestSymbolsCommand_SyntaxError(t *testing.T) {
	fs := newFs(t, map[string]string{"/proj/Bad.kt": "class {\n"})

	res := run(t, fs, "", "symbols", "Bad.kt")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Bad.kt:1:")
}

func TestInvalidProjectConfig(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/proj/kastree.yml": "format:\n  indent_size: 0\n",
		"/proj/Main.kt":     "val x = 1\n",
	})

	res := run(t, fs, "", "check")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "indent_size")
}
