package params

// Keys read or written by the settings UI. Other device services own most of them; the
// registry only guards against typos turning into stray files in the params directory.
const (
	KeyDongleID                 = "DongleId"
	KeyPassive                  = "Passive"
	KeyIsOffroad                = "IsOffroad"
	KeyCalibrationParams        = "CalibrationParams"
	KeyLiveParameters           = "LiveParameters"
	KeyCompletedTrainingVersion = "CompletedTrainingVersion"
	KeyDoUninstall              = "DoUninstall"

	KeyVersion           = "Version"
	KeyGitRemote         = "GitRemote"
	KeyGitBranch         = "GitBranch"
	KeyGitCommit         = "GitCommit"
	KeyLastUpdateTime    = "LastUpdateTime"
	KeyUpdateFailedCount = "UpdateFailedCount"

	KeySSHEnabled     = "SshEnabled"
	KeyGithubUsername = "GithubUsername"
	KeyGithubSSHKeys  = "GithubSshKeys"

	KeyLateralControlSelect = "LateralControlSelect"
	KeyMfcSelect            = "MfcSelect"
	KeyLongControlSelect    = "LongControlSelect"

	KeyOpenpilotEnabledToggle  = "OpenpilotEnabledToggle"
	KeyIsMetric                = "IsMetric"
	KeyCommunityFeaturesToggle = "CommunityFeaturesToggle"
	KeyIsLdwEnabled            = "IsLdwEnabled"
	KeyAutoLaneChangeEnabled   = "AutoLaneChangeEnabled"
	KeyUploadRaw               = "UploadRaw"
	KeyEndToEndToggle          = "EndToEndToggle"
	KeyPutPrebuilt             = "PutPrebuilt"
	KeyDisableShutdownd        = "DisableShutdownd"
	KeyDisableLogger           = "DisableLogger"
	KeyDisableGps              = "DisableGps"
	KeyUiTpms                  = "UiTpms"
)

var knownKeys = map[string]struct{}{
	KeyDongleID:                 {},
	KeyPassive:                  {},
	KeyIsOffroad:                {},
	KeyCalibrationParams:        {},
	KeyLiveParameters:           {},
	KeyCompletedTrainingVersion: {},
	KeyDoUninstall:              {},
	KeyVersion:                  {},
	KeyGitRemote:                {},
	KeyGitBranch:                {},
	KeyGitCommit:                {},
	KeyLastUpdateTime:           {},
	KeyUpdateFailedCount:        {},
	KeySSHEnabled:               {},
	KeyGithubUsername:           {},
	KeyGithubSSHKeys:            {},
	KeyLateralControlSelect:     {},
	KeyMfcSelect:                {},
	KeyLongControlSelect:        {},
	KeyOpenpilotEnabledToggle:   {},
	KeyIsMetric:                 {},
	KeyCommunityFeaturesToggle:  {},
	KeyIsLdwEnabled:             {},
	KeyAutoLaneChangeEnabled:    {},
	KeyUploadRaw:                {},
	KeyEndToEndToggle:           {},
	KeyPutPrebuilt:              {},
	KeyDisableShutdownd:         {},
	KeyDisableLogger:            {},
	KeyDisableGps:               {},
	KeyUiTpms:                   {},
}

func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// Keys returns every registered key.
func Keys() []string {
	out := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		out = append(out, key)
	}
	return out
}
