package selfupdate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeExecutable(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "runtasktic")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestUpdateReplacesExecutableOnChecksumMatch(t *testing.T) {
	const newBinary = "new-binary-contents"
	sum := sha256.Sum256([]byte(newBinary))
	digest := hex.EncodeToString(sum[:])

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/Joxit/runtasktic/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name": "v1.2.3", "body": "release notes"}`)
	})
	mux.HandleFunc("/Joxit/runtasktic/releases/download/v1.2.3/runtasktic-linux-x86_64", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, newBinary)
	})
	mux.HandleFunc("/Joxit/runtasktic/releases/download/v1.2.3/runtasktic-linux-x86_64.sha256", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s  runtasktic-linux-x86_64\n", digest)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	oldRelease, oldBase := releaseAPIOverride, releaseBaseOverride
	releaseAPIOverride = srv.URL + "/repos/Joxit/runtasktic/releases/latest"
	releaseBaseOverride = srv.URL + "/Joxit/runtasktic/releases/download"
	defer func() { releaseAPIOverride, releaseBaseOverride = oldRelease, oldBase }()

	execPath := writeFakeExecutable(t, "old-binary-contents")

	err := Update(srv.Client(), execPath, "runtasktic-linux-x86_64")
	require.NoError(t, err)

	data, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, newBinary, string(data))
}

func TestUpdateRejectsChecksumMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/Joxit/runtasktic/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name": "v1.2.3"}`)
	})
	mux.HandleFunc("/Joxit/runtasktic/releases/download/v1.2.3/runtasktic-linux-x86_64", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "corrupted")
	})
	mux.HandleFunc("/Joxit/runtasktic/releases/download/v1.2.3/runtasktic-linux-x86_64.sha256", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "0000000000000000000000000000000000000000000000000000000000000000  runtasktic-linux-x86_64\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	oldRelease, oldBase := releaseAPIOverride, releaseBaseOverride
	releaseAPIOverride = srv.URL + "/repos/Joxit/runtasktic/releases/latest"
	releaseBaseOverride = srv.URL + "/Joxit/runtasktic/releases/download"
	defer func() { releaseAPIOverride, releaseBaseOverride = oldRelease, oldBase }()

	execPath := writeFakeExecutable(t, "old-binary-contents")
	before, err := os.ReadFile(execPath)
	require.NoError(t, err)

	err = Update(srv.Client(), execPath, "runtasktic-linux-x86_64")
	assert.Error(t, err)

	after, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "executable must be untouched when the checksum does not match")
}

func TestUpdateRejectsReadOnlyExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtasktic")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o444))

	err := Update(http.DefaultClient, path, "runtasktic-linux-x86_64")
	assert.Error(t, err)
}
