package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userFile = `version: 1
# where to listen
listen: 9090
`
	defaultFile = `version: 2
server:
  port: 80
  host: 0.0.0.0
`
	settingsFile = `versioning:
  route: version
relocations:
  - {version: "2", from: listen, to: server.port}
`
)

func writeFiles(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	for name, content := range map[string]string{
		"user.yml":     userFile,
		"default.yml":  defaultFile,
		"settings.yml": settingsFile,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := Execute(cmd)
	return out.String(), err
}

func TestUpdateWritesUserFile(t *testing.T) {
	dir := writeFiles(t)
	user := filepath.Join(dir, "user.yml")

	_, err := run(t, "update",
		"--user", user,
		"--default", filepath.Join(dir, "default.yml"),
		"--config", filepath.Join(dir, "settings.yml"))
	require.NoError(t, err)

	got, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.Equal(t, `version: 2
server:
  # where to listen
  port: 9090
  host: 0.0.0.0
`, string(got))

	st, err := os.Stat(user)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestUpdateDryRunPrintsDiff(t *testing.T) {
	dir := writeFiles(t)
	user := filepath.Join(dir, "user.yml")

	out, err := run(t, "update", "--dry-run",
		"-u", user,
		"-d", filepath.Join(dir, "default.yml"),
		"--version-route", "version")
	require.NoError(t, err)

	assert.Contains(t, out, "+++ "+user+" (updated)")
	assert.Contains(t, out, "-listen: 9090")
	assert.Contains(t, out, "+  port: 80")

	got, err := os.ReadFile(user)
	require.NoError(t, err)
	assert.Equal(t, userFile, string(got), "dry run leaves the file alone")
}

func TestUpdateOutputAndMissingUserFile(t *testing.T) {
	dir := writeFiles(t)
	target := filepath.Join(dir, "out.yml")

	_, err := run(t, "update",
		"--user", filepath.Join(dir, "absent.yml"),
		"--default", filepath.Join(dir, "default.yml"),
		"--output", target)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, defaultFile, string(got))
}

func TestUpdateErrors(t *testing.T) {
	dir := writeFiles(t)

	_, err := run(t, "update", "--user", filepath.Join(dir, "user.yml"))
	assert.Error(t, err, "default is required")

	_, err = run(t, "update",
		"--user", filepath.Join(dir, "user.yml"),
		"--default", filepath.Join(dir, "nope.yml"))
	assert.ErrorContains(t, err, "failed to read default file")

	_, err = run(t, "update", "--log-level", "loud",
		"--user", filepath.Join(dir, "user.yml"),
		"--default", filepath.Join(dir, "default.yml"))
	assert.ErrorContains(t, err, "invalid --log-level")
}

func TestCompare(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"compare", "1.9", "1.10"}, "1.9 < 1.10\n"},
		{[]string{"compare", "2.1", "1.9"}, "2.1 > 1.9\n"},
		{[]string{"compare", "--parts", "0", "7", "7"}, "7 == 7\n"},
		{[]string{"compare", "--parts", "3", "1.0.9", "1.1.0"}, "1.0.9 < 1.1.0\n"},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, out)
	}

	_, err := run(t, "compare", "1.x", "1.2")
	assert.Error(t, err)
}

func TestLineColor(t *testing.T) {
	assert.Equal(t, headerColor, lineColor("+++ a"))
	assert.Equal(t, hunkColor, lineColor("@@ -1 +1 @@"))
	assert.Equal(t, addedColor, lineColor("+x"))
	assert.Equal(t, removedColor, lineColor("-x"))
	assert.Nil(t, lineColor(" x"))
}
