package models

/**
 * Updater status returned by the HTTP API (serialized JSON)
 */
type StatusResponse struct {
	AppName         string       `json:"appName"`
	State           UpdateState  `json:"state"`
	CurrentVersion  string       `json:"currentVersion"`
	LatestVersion   string       `json:"latestVersion,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Progress        ProgressInfo `json:"progress"`
	LastMessage     string       `json:"lastMessage,omitempty"`
	LastError       string       `json:"lastError,omitempty"`
	RestartRequired bool         `json:"restartRequired"`
}
