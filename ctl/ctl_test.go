package ctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const appGraph = `
[[nodes]]
name = "app"
deps = ["ui", "net"]

[[nodes]]
name = "ui"
deps = ["gfx"]

[[nodes]]
name = "net"
deps = ["tls"]

[[nodes]]
name = "cli"
deps = ["net"]
`

const cyclicGraph = `
nodes:
  - name: a
    deps: [b]
  - name: b
    deps: [a]
`

// writeGraph writes body to a file called name in a fresh directory and
// returns its path.
func writeGraph(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}
