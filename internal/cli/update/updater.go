package update

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// downloadClient allows binaries a few minutes; release assets are tens of MB.
var downloadClient = &http.Client{Timeout: 5 * time.Minute}

// SelfUpdate replaces the running binary with the latest release.
func SelfUpdate(currentVersion string) error {
	checker := &Checker{}
	release, err := checker.Latest()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	if !IsNewer(currentVersion, release.TagName) {
		fmt.Printf("Already up to date (version %s)\n", currentVersion)
		return nil
	}

	asset, err := assetName()
	if err != nil {
		return err
	}
	assetURL := fmt.Sprintf("%s/%s/%s", downloadBaseURL, release.TagName, asset)

	fmt.Printf("Updating %s -> %s\n", currentVersion, release.TagName)
	fmt.Println("Downloading new version...")

	staged, err := download(assetURL)
	if err != nil {
		return fmt.Errorf("failed to download update: %w", err)
	}
	defer os.Remove(staged)

	fmt.Println("Verifying checksum...")
	want, err := publishedChecksum(assetURL + ".sha256")
	if err != nil {
		return fmt.Errorf("checksum verification failed: %w", err)
	}
	got, err := fileChecksum(staged)
	if err != nil {
		return fmt.Errorf("checksum verification failed: %w", err)
	}
	if got != want {
		return fmt.Errorf("checksum mismatch (expected: %s, got: %s)", want, got)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	fmt.Println("Installing new version...")
	if err := install(staged, execPath); err != nil {
		return fmt.Errorf("failed to install update: %w", err)
	}

	fmt.Printf("\nUpdated to version %s\n", release.TagName)
	return nil
}

// assetName maps the running platform to its release asset.
func assetName() (string, error) {
	supported := map[string]bool{
		"linux/amd64": true, "linux/arm64": true,
		"darwin/amd64": true, "darwin/arm64": true,
		"windows/amd64": true,
	}

	platform := runtime.GOOS + "/" + runtime.GOARCH
	if !supported[platform] {
		return "", fmt.Errorf("no prebuilt binary for %s", platform)
	}

	name := fmt.Sprintf("povertyline-%s-%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name, nil
}

// download stages the asset in a temp file and returns its path.
func download(url string) (string, error) {
	resp, err := get(downloadClient, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp("", "povertyline-update-*")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// publishedChecksum fetches the asset's .sha256 companion file, which holds
// "hash  filename".
func publishedChecksum(url string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := get(client, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return "", fmt.Errorf("invalid checksum format")
	}
	return fields[0], nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func get(client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return resp, nil
}

// install swaps the new binary in, keeping a restorable backup while the copy
// is in flight. A rename is not enough: the staged download lives on another
// filesystem, and Windows cannot unlink a running executable.
func install(stagedPath, execPath string) error {
	if err := os.Chmod(stagedPath, 0755); err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		backup := execPath + ".old"
		os.Remove(backup)

		if err := os.Rename(execPath, backup); err != nil {
			return fmt.Errorf("failed to backup current binary: %w", err)
		}
		if err := copyFile(stagedPath, execPath); err != nil {
			os.Rename(backup, execPath)
			return fmt.Errorf("failed to install new binary: %w", err)
		}

		fmt.Println("\nNote: old binary saved with a .old suffix; delete it manually")
		return nil
	}

	backup := execPath + ".backup"
	if err := copyFile(execPath, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := copyFile(stagedPath, execPath); err != nil {
		copyFile(backup, execPath)
		return fmt.Errorf("failed to install new binary: %w", err)
	}

	os.Remove(backup)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode())
}
