package app

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/opkr/offroad/internal/params"
)

const (
	lastUpdateLayout = "2006-01-02T15:04:05.999999"
	gitRemotePrefix  = len("https://github.com/")
	day              = 24 * time.Hour
)

// ParamReader is the read side of the params store.
type ParamReader interface {
	Get(key string) string
	GetBool(key string) bool
	GetInt(key string) int
}

// SoftwareInfo is the read-only label state of the software panel.
type SoftwareInfo struct {
	Version    string
	GitRemote  string
	GitBranch  string
	GitCommit  string
	OSVersion  string
	LastUpdate string
}

// LoadSoftwareInfo projects params into display labels. osVersion comes from the hardware backend.
func LoadSoftwareInfo(p ParamReader, osVersion string, now time.Time) SoftwareInfo {
	brand := Brand(p)

	version := p.Get(params.KeyVersion)
	if len(version) > 14 {
		version = version[:14]
	}

	remote := p.Get(params.KeyGitRemote)
	if len(remote) > gitRemotePrefix {
		remote = remote[gitRemotePrefix:]
	}

	return SoftwareInfo{
		Version:    brand + " v" + strings.TrimSpace(version),
		GitRemote:  remote,
		GitBranch:  p.Get(params.KeyGitBranch),
		GitCommit:  shortCommit(p.Get(params.KeyGitCommit)),
		OSVersion:  osVersion,
		LastUpdate: lastUpdateText(p.Get(params.KeyLastUpdateTime), now),
	}
}

// Brand is "dashcam" on passive devices and "openpilot" otherwise.
func Brand(p ParamReader) string {
	if p.GetBool(params.KeyPassive) {
		return "dashcam"
	}
	return "openpilot"
}

func lastUpdateText(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	at, err := time.ParseInLocation(lastUpdateLayout, raw, time.UTC)
	if err != nil {
		return ""
	}

	return TimeAgo(at, now)
}

var timeAgoMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "now", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d days %s", DivBy: day},
}

// TimeAgo renders how long ago t was relative to now. Future times read as "now".
func TimeAgo(t, now time.Time) string {
	if t.After(now) {
		return "now"
	}

	return humanize.CustomRelTime(t, now, "ago", "from now", timeAgoMagnitudes)
}

func shortCommit(commit string) string {
	commit = strings.TrimSpace(commit)
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}
