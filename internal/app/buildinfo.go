package app

import (
	"fmt"
	"strings"
	"time"
)

var (
	// Version is filled by ldflags in release builds.
	Version = "dev"
	// BuildDate is filled by ldflags in release builds.
	BuildDate = ""
	// Commit is filled by ldflags in release builds.
	Commit = ""
)

func BuildVersion() string {
	version := strings.TrimSpace(Version)
	if version == "" {
		return "dev"
	}

	return version
}

func BuildDateYMD() string {
	raw := strings.TrimSpace(BuildDate)
	if raw == "" {
		return ""
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.Format(time.DateOnly)
	}

	if len(raw) >= len(time.DateOnly) {
		date := raw[:len(time.DateOnly)]
		if _, err := time.Parse(time.DateOnly, date); err == nil {
			return date
		}
	}

	return raw
}

// BuildSummary renders "<version> (<commit>, <date>)" leaving out unknown parts.
func BuildSummary() string {
	parts := make([]string, 0, 2)
	if commit := shortCommit(Commit); commit != "" {
		parts = append(parts, commit)
	}
	if date := BuildDateYMD(); date != "" {
		parts = append(parts, date)
	}
	if len(parts) == 0 {
		return BuildVersion()
	}

	return fmt.Sprintf("%s (%s)", BuildVersion(), strings.Join(parts, ", "))
}
