// Package selfupdate implements the `update` CLI verb (spec.md §6): fetch
// the latest GitHub release, verify its binary against a signed sha256
// sibling file, and atomically replace the running executable.
//
// There is no GitHub-release or self-update library anywhere in the
// retrieval pack (see SPEC_FULL.md §3), so this is built directly on
// net/http, encoding/json and crypto/sha256, mirroring the original Rust
// implementation's src/commands/update.rs call sequence.
package selfupdate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// releaseAPIOverride and releaseBaseOverride let tests point Update at a
// local server instead of github.com; production code never touches them.
var (
	releaseAPIOverride  string
	releaseBaseOverride string
)

func releaseAPI() string {
	if releaseAPIOverride != "" {
		return releaseAPIOverride
	}
	return "https://api.github.com/repos/Joxit/runtasktic/releases/latest"
}

func releaseBase() string {
	if releaseBaseOverride != "" {
		return releaseBaseOverride
	}
	return "https://github.com/Joxit/runtasktic/releases/download"
}

// Error wraps a failure at a specific step of the update, matching the
// original's per-step `format!("Cannot ...: {}", err)` messages.
type Error struct {
	Step  string
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Cause) }
func (e *Error) Unwrap() error { return e.Cause }

// AssetName is the platform-specific release asset requested from GitHub,
// e.g. "runtasktic-linux-x86_64". Update takes it as a parameter instead
// of hard-coding linux/amd64, so the same logic serves every host triple
// the release pipeline publishes for.
type AssetName string

// Update downloads the latest release's AssetName binary, verifies its
// sha256 against the signed "<asset>.sha256" sibling file, and atomically
// replaces execPath with it via rename.
func Update(client *http.Client, execPath string, asset AssetName) error {
	if client == nil {
		client = http.DefaultClient
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return &Error{Step: "locating the running executable", Cause: err}
	}
	if info.IsDir() || info.Mode()&0o200 == 0 {
		return &Error{Step: "checking the running executable", Cause: fmt.Errorf("%s cannot be replaced", execPath)}
	}

	version, err := latestVersion(client)
	if err != nil {
		return &Error{Step: "getting the latest version", Cause: err}
	}

	binary, err := fetchBytes(client, fmt.Sprintf("%s/%s/%s", releaseBase(), version, asset))
	if err != nil {
		return &Error{Step: "downloading the binary", Cause: err}
	}

	digest, err := fetchChecksum(client, fmt.Sprintf("%s/%s/%s.sha256", releaseBase(), version, asset))
	if err != nil {
		return &Error{Step: "downloading the sha256", Cause: err}
	}

	sum := sha256.Sum256(binary)
	got := hex.EncodeToString(sum[:])
	if got != digest {
		return &Error{Step: "verifying the binary", Cause: fmt.Errorf("sha256 mismatch: trusted %s, downloaded %s", digest, got)}
	}

	tmpPath := execPath + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &Error{Step: "writing the binary to disk", Cause: err}
	}
	if _, err := f.Write(binary); err != nil {
		f.Close()
		return &Error{Step: "writing the binary to disk", Cause: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Step: "writing the binary to disk", Cause: err}
	}

	if err := os.Rename(tmpPath, execPath); err != nil {
		return &Error{Step: fmt.Sprintf("renaming %s to %s", tmpPath, execPath), Cause: err}
	}
	return nil
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
}

func latestVersion(client *http.Client) (string, error) {
	resp, err := client.Get(releaseAPI())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("parsing GitHub API release: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("the tag cannot be parsed")
	}
	return release.TagName, nil
}

func fetchBytes(client *http.Client, url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func fetchChecksum(client *http.Client, url string) (string, error) {
	data, err := fetchBytes(client, url)
	if err != nil {
		return "", err
	}
	// The sha256 sibling file has the form "<hex digest> <filename>".
	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty sha256 file")
	}
	return fields[0], nil
}
