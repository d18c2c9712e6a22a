// Package update keeps installed CLIs current from GitHub releases.
package update

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	releaseAPIURL   = "https://api.github.com/repos/Jeremy-Bosire/PovertyLine/releases/latest"
	downloadBaseURL = "https://github.com/Jeremy-Bosire/PovertyLine/releases/download"
	userAgent       = "povertyline-cli"

	// notifyInterval caps how often commands ping the release API. The CLI
	// is often run in scripts, so a failed or slow check must never get in
	// the way of the actual command.
	notifyInterval = 24 * time.Hour
)

// Release is the subset of a GitHub release the CLI cares about.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries the release feed. The zero value uses the production
// endpoint; tests point APIURL at a fake.
type Checker struct {
	Client *http.Client
	APIURL string
}

// Latest returns the most recent published release.
func (c *Checker) Latest() (*Release, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	apiURL := c.APIURL
	if apiURL == "" {
		apiURL = releaseAPIURL
	}

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &release, nil
}

// IsNewer reports whether latest is a higher version than current. Dev
// builds always count as outdated. Tags may carry a leading 'v'.
func IsNewer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")

	if current == "dev" {
		return latest != ""
	}
	if latest == "" || current == latest {
		return false
	}

	currentParts := versionParts(current)
	latestParts := versionParts(latest)
	for i := 0; i < len(currentParts) && i < len(latestParts); i++ {
		if latestParts[i] != currentParts[i] {
			return latestParts[i] > currentParts[i]
		}
	}
	return len(latestParts) > len(currentParts)
}

func versionParts(version string) []int {
	// Strip pre-release/build suffixes like -rc1 or +sha.
	if i := strings.IndexAny(version, "-+"); i >= 0 {
		version = version[:i]
	}

	fields := strings.Split(version, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}

// MaybeNotify prints an upgrade hint to stderr when a newer release exists.
// It checks the release feed at most once per notifyInterval and swallows
// every error: an update notice is never worth failing a command over.
func MaybeNotify(currentVersion string) {
	if !shouldCheck() {
		return
	}
	markChecked()

	checker := &Checker{}
	release, err := checker.Latest()
	if err != nil {
		return
	}

	if IsNewer(currentVersion, release.TagName) {
		fmt.Fprintf(os.Stderr, "New version %s -> %s. Run: povertyline update\n\n", currentVersion, release.TagName)
	}
}

// stampPath is the mtime marker recording the last release-feed check.
func stampPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "povertyline", "update-check"), nil
}

func shouldCheck() bool {
	path, err := stampPath()
	if err != nil {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) >= notifyInterval
}

func markChecked() {
	path, err := stampPath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}

	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		_ = os.WriteFile(path, nil, 0644)
	}
}
