// Package oitupdate checks for a newer release without applying one.
// Binary self-update is explicitly out of scope (spec §1 Non-goals); this
// package covers only the ambient config/flag surface spec §6 still
// requires (disable_auto_update, --no-update, --update), grounded on
// original_source/src/updater.rs's get_latest_version scope, minus the
// gh-CLI shellout and the download/extract/re-exec steps it performs
// beyond that.
package oitupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const releasesEndpoint = "https://api.github.com/repos/%s/releases/latest"

// CheckResult reports whether a newer release exists.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	UpdateAvailable bool
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// Check queries the GitHub releases API for repo's latest tag and
// compares it against currentVersion. It never downloads or replaces the
// running binary.
func Check(ctx context.Context, repo, currentVersion string) (CheckResult, error) {
	return checkAt(ctx, releasesEndpoint, repo, currentVersion)
}

func checkAt(ctx context.Context, endpointTemplate, repo, currentVersion string) (CheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf(endpointTemplate, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CheckResult{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return CheckResult{}, fmt.Errorf("oitupdate: checking %s: %w", repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CheckResult{}, fmt.Errorf("oitupdate: unexpected status %d from %s", resp.StatusCode, url)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return CheckResult{}, fmt.Errorf("oitupdate: decoding release response: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	return CheckResult{
		CurrentVersion:  currentVersion,
		LatestVersion:   latest,
		UpdateAvailable: latest != "" && latest != currentVersion,
	}, nil
}
