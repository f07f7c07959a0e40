package models

/**
 * Update pipeline state
 */
type UpdateState string

const (
	StateIdle            UpdateState = "idle"
	StateChecking        UpdateState = "checking"
	StateUpToDate        UpdateState = "up_to_date"
	StateUpdateAvailable UpdateState = "update_available"
	StateDownloading     UpdateState = "downloading"
	StateInstalling      UpdateState = "installing"
	StateDone            UpdateState = "done"
	StateFailed          UpdateState = "failed"
)

/**
 * Severity of a status message shown to the user
 */
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityUpdate  Severity = "update"
	SeverityError   Severity = "error"
)

/**
 * Kind of event emitted by the update controller
 */
type EventKind string

const (
	EventStateChanged    EventKind = "state_changed"
	EventStatusChanged   EventKind = "status_changed"
	EventProgressChanged EventKind = "progress_changed"
	EventCheckResult     EventKind = "check_result"
	EventDownloadResult  EventKind = "download_result"
	EventInstallResult   EventKind = "install_result"
)

/**
 * Download progress snapshot
 * @property {int64} bytes - Bytes transferred so far
 * @property {int64} total - Total bytes expected, 0 if unknown
 * @property {int} percent - Completed percentage, -1 when total is unknown
 */
type ProgressInfo struct {
	Bytes   int64 `json:"bytes"`
	Total   int64 `json:"total"`
	Percent int   `json:"percent"`
}

/**
 * Outcome of a manifest check
 */
type CheckOutcome struct {
	UpdateAvailable bool   `json:"updateAvailable"`
	LatestVersion   string `json:"latestVersion"`
	Notes           string `json:"notes,omitempty"`
}

/**
 * Terminal outcome of a download or install operation
 * @property {bool} incomplete - Install failed after live files were already
 * overwritten, leaving a mixed-version installation
 */
type ResultInfo struct {
	Success         bool   `json:"success"`
	Reason          string `json:"reason,omitempty"`
	Incomplete      bool   `json:"incomplete,omitempty"`
	RestartRequired bool   `json:"restartRequired,omitempty"`
}

/**
 * Event emitted by the update controller for the presentation layer.
 * Only the fields matching Kind are populated.
 */
type UpdateEvent struct {
	Kind     EventKind     `json:"kind"`
	State    UpdateState   `json:"state,omitempty"`
	Message  string        `json:"message,omitempty"`
	Severity Severity      `json:"severity,omitempty"`
	Progress *ProgressInfo `json:"progress,omitempty"`
	Check    *CheckOutcome `json:"check,omitempty"`
	Result   *ResultInfo   `json:"result,omitempty"`
}
