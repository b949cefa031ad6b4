package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = fmt.Fprint(w, `{"usuario":{"_id":"u1","usuario":"bob","nombre":"Bob"},"token":"tok-123"}`)
		case "/tweets":
			_, _ = fmt.Fprint(w, `{"tweets":[{"_id":"t1","contenido":"hola","usuario":{"_id":"u1","usuario":"bob"},"likes":["u2"]}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runPulso(t, binaryPath, home, server.URL, "login", "--user", "bob", "--password", "pw")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Logged in as @bob")

	stdout, stderr, err = runPulso(t, binaryPath, home, server.URL, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "@bob")

	stdout, stderr, err = runPulso(t, binaryPath, home, server.URL, "feed", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"id": "t1"`)
	assert.Contains(t, stdout, `"content": "hola"`)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pulso-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pulso")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build pulso binary: %s", string(output))
	return binaryPath
}

func runPulso(t *testing.T, binaryPath, home, baseURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"PULSO_API_BASE_URL="+baseURL,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
