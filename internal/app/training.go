package app

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/opkr/offroad/internal/params"
)

// TrainingPending reports whether the training guide must be shown: the completed version
// is missing, not a version, or older than required.
func TrainingPending(p ParamReader, required string) bool {
	completed := normalizeSemver(p.Get(params.KeyCompletedTrainingVersion))
	if !semver.IsValid(completed) {
		return true
	}
	want := normalizeSemver(required)
	if !semver.IsValid(want) {
		return false
	}

	return semver.Compare(completed, want) < 0
}

func normalizeSemver(version string) string {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "v") {
		return "v" + trimmed
	}

	return trimmed
}
