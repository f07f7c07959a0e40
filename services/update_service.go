package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"update-keeper/internal/config"
	"update-keeper/internal/logger"
	"update-keeper/internal/models"
	"update-keeper/internal/update"
	"update-keeper/internal/utils"
)

var (
	ErrBusy     = errors.New("another update operation is in progress")
	ErrNoUpdate = errors.New("no update available")
)

// Fixed name of the staged package inside the staging area.
const packageFileName = "update.zip"

/**
 * Update controller: owns the pipeline state machine
 * (Idle → Checking → UpToDate/UpdateAvailable → Downloading → Installing →
 * Done/Failed), the staging area, and the event channel observed by the
 * presentation layer.
 * @description
 * - Long-running work (download, install) runs on one worker goroutine per
 *   triggered operation; at most one operation is in flight at a time
 * - All events for an operation are emitted in order; progress events carry
 *   non-decreasing byte counts and the terminal result event comes last
 * - Triggers received while an operation is in flight are rejected
 */
type UpdateService struct {
	mu              sync.Mutex
	state           models.UpdateState
	cfg             *config.UpdaterConfig
	cfgPath         string
	liveDir         string
	stagingDir      string
	downloadPath    string
	manifest        *models.UpdateManifest
	progress        models.ProgressInfo
	lastMessage     string
	lastError       string
	restartRequired bool

	events    chan models.UpdateEvent
	manifests *update.ManifestClient
	fetcher   *update.Fetcher
	installer *update.Installer
}

/**
 * Create new update service instance
 * @param {*config.UpdaterConfig} cfg - Persisted updater configuration
 * @param {string} cfgPath - Path the configuration is persisted to
 * @param {string} liveDir - Live installation directory to merge updates into
 * @returns {*UpdateService} New service instance
 * @returns {error} Error if the staging area cannot be created
 * @description
 * - Creates a process-lifetime staging directory; Close removes it
 * - The download destination is a fixed path inside the staging area
 */
func NewUpdateService(cfg *config.UpdaterConfig, cfgPath, liveDir string) (*UpdateService, error) {
	stagingDir, err := os.MkdirTemp("", "update-keeper-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	exeName := ""
	if exe, err := os.Executable(); err == nil {
		exeName = filepath.Base(exe)
	}

	s := &UpdateService{
		state:        models.StateIdle,
		cfg:          cfg,
		cfgPath:      cfgPath,
		liveDir:      liveDir,
		stagingDir:   stagingDir,
		downloadPath: filepath.Join(stagingDir, packageFileName),
		events:       make(chan models.UpdateEvent, 256),
		manifests:    update.NewManifestClient(),
		fetcher:      update.NewFetcher(),
		installer:    update.NewInstaller(exeName, "update-keeper", "update-keeper.exe"),
	}
	return s, nil
}

// Events returns the ordered event channel. Exactly one consumer must
// drain it while operations are running.
func (s *UpdateService) Events() <-chan models.UpdateEvent {
	return s.events
}

// State returns the current pipeline state.
func (s *UpdateService) State() models.UpdateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the current persisted configuration.
func (s *UpdateService) Config() config.UpdaterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cfg
}

/**
 * Get a status snapshot for the HTTP API
 * @returns {models.StatusResponse} Current state, versions and progress
 */
func (s *UpdateService) Status() models.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsp := models.StatusResponse{
		AppName:         s.cfg.AppName,
		State:           s.state,
		CurrentVersion:  s.cfg.CurrentVersion,
		Progress:        s.progress,
		LastMessage:     s.lastMessage,
		LastError:       s.lastError,
		RestartRequired: s.restartRequired,
	}
	if s.manifest != nil {
		rsp.LatestVersion = s.manifest.Version
		rsp.Notes = s.manifest.Notes
	}
	return rsp
}

/**
 * Release the staging area
 * @description
 * - Best-effort recursive delete, called on shutdown regardless of which
 *   state the pipeline was in; an in-flight worker is simply abandoned
 */
func (s *UpdateService) Close() {
	if err := os.RemoveAll(s.stagingDir); err != nil {
		logger.Warnf("Remove staging directory '%s' failed: %v", s.stagingDir, err)
	}
}

/**
 * Trigger a manifest check (Idle → Checking)
 * @returns {error} ErrBusy if an operation is already in flight
 * @description
 * - Fetches the manifest and compares versions on a worker goroutine
 * - Result is delivered as a check-result event; a fetch or parse failure
 *   moves the pipeline through Failed back to Idle with no retry
 */
func (s *UpdateService) RequestCheck() error {
	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = models.StateChecking
	s.lastError = ""
	s.mu.Unlock()

	s.emitState(models.StateChecking)
	s.emitStatus("Checking for updates...", models.SeverityInfo)
	go s.runCheck()
	return nil
}

/**
 * Trigger download and install of the retained update
 * (UpdateAvailable → Downloading → Installing)
 * @returns {error} ErrBusy while an operation is in flight, ErrNoUpdate
 * when no newer version was found by the last check
 */
func (s *UpdateService) RequestDownloadAndInstall() error {
	s.mu.Lock()
	if s.busyLocked() {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state != models.StateUpdateAvailable || s.manifest == nil {
		s.mu.Unlock()
		return ErrNoUpdate
	}
	manifest := s.manifest
	s.state = models.StateDownloading
	s.lastError = ""
	s.progress = models.ProgressInfo{Percent: -1}
	s.mu.Unlock()

	s.emitState(models.StateDownloading)
	s.emitStatus("Starting download...", models.SeverityInfo)
	go s.runDownloadAndInstall(manifest)
	return nil
}

// busyLocked reports whether a pipeline stage is currently running.
// Caller holds the lock.
func (s *UpdateService) busyLocked() bool {
	switch s.state {
	case models.StateChecking, models.StateDownloading, models.StateInstalling:
		return true
	}
	return false
}

func (s *UpdateService) runCheck() {
	s.mu.Lock()
	url := s.cfg.UpdateURL
	current := s.cfg.CurrentVersion
	s.mu.Unlock()

	manifest, err := s.manifests.Fetch(context.Background(), url)
	if err != nil {
		recordCheckResult("failed")
		logger.Errorf("Manifest check failed: %v", err)
		s.fail(fmt.Sprintf("Error checking for updates: %v", err), err)
		return
	}

	if utils.IsNewerVersion(manifest.Version, current) {
		s.mu.Lock()
		s.manifest = manifest
		s.state = models.StateUpdateAvailable
		s.mu.Unlock()
		recordCheckResult("update_available")
		s.emitState(models.StateUpdateAvailable)
		s.emitStatus(fmt.Sprintf("Update available: v%s", manifest.Version), models.SeverityUpdate)
		s.emit(models.UpdateEvent{
			Kind: models.EventCheckResult,
			Check: &models.CheckOutcome{
				UpdateAvailable: true,
				LatestVersion:   manifest.Version,
				Notes:           manifest.Notes,
			},
		})
		return
	}

	s.mu.Lock()
	s.manifest = nil
	s.state = models.StateUpToDate
	s.mu.Unlock()
	recordCheckResult("up_to_date")
	s.emitState(models.StateUpToDate)
	s.emitStatus(fmt.Sprintf("You have the latest version (v%s)", current), models.SeveritySuccess)
	s.emit(models.UpdateEvent{
		Kind:  models.EventCheckResult,
		Check: &models.CheckOutcome{UpdateAvailable: false, LatestVersion: manifest.Version},
	})
}

// progressPercent converts a byte count to a completed percentage, -1 when
// the total is unknown. A server may deliver more bytes than the
// Content-Length it announced; the value is capped at 100.
func progressPercent(bytes, total int64) int {
	if total <= 0 {
		return -1
	}
	percent := int(bytes * 100 / total)
	if percent > 100 {
		percent = 100
	}
	return percent
}

func (s *UpdateService) runDownloadAndInstall(manifest *models.UpdateManifest) {
	start := time.Now()
	lastTenthMB := int64(-1)

	err := s.fetcher.Download(context.Background(), manifest.DownloadURL, s.downloadPath,
		func(bytes, total int64) {
			info := models.ProgressInfo{Bytes: bytes, Total: total, Percent: progressPercent(bytes, total)}
			s.mu.Lock()
			s.progress = info
			s.mu.Unlock()
			s.emit(models.UpdateEvent{Kind: models.EventProgressChanged, Progress: &info})

			// status message at 0.1 MB granularity, the rendered resolution
			if tenths := bytes * 10 / (1024 * 1024); tenths != lastTenthMB {
				lastTenthMB = tenths
				s.emitStatus(fmt.Sprintf("Downloading... %.1f MB", float64(bytes)/1024/1024),
					models.SeverityInfo)
			}
		})
	elapsed := time.Since(start).Seconds()

	s.mu.Lock()
	downloaded := s.progress.Bytes
	s.mu.Unlock()

	if err != nil {
		recordDownloadResult("failed", downloaded, elapsed)
		logger.Errorf("Download failed: %v", err)
		// discard the partial staging file; the fetcher leaves it behind
		if rmErr := os.Remove(s.downloadPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warnf("Remove partial download '%s' failed: %v", s.downloadPath, rmErr)
		}
		s.fail("Download failed!", err)
		s.emit(models.UpdateEvent{
			Kind:   models.EventDownloadResult,
			Result: &models.ResultInfo{Success: false, Reason: err.Error()},
		})
		return
	}

	recordDownloadResult("success", downloaded, elapsed)
	s.emitStatus("Download completed!", models.SeverityInfo)
	s.emit(models.UpdateEvent{
		Kind:   models.EventDownloadResult,
		Result: &models.ResultInfo{Success: true},
	})

	s.mu.Lock()
	s.state = models.StateInstalling
	cfg := s.cfg
	s.mu.Unlock()
	s.emitState(models.StateInstalling)
	s.emitStatus("Installing update...", models.SeverityInfo)

	updated, err := s.installer.Install(s.downloadPath, s.stagingDir, s.liveDir, cfg, s.cfgPath)
	switch {
	case err == nil:
		s.finishInstall(updated, "")

	case update.KindOf(err) == update.KindConfigPersist:
		// The file merge succeeded; report the persist failure distinctly
		// but still finish the run.
		logger.Errorf("Persisting updated configuration failed: %v", err)
		s.finishInstall(updated, err.Error())

	case update.IsIncomplete(err):
		recordInstallResult("incomplete")
		logger.Errorf("Install left a mixed installation: %v", err)
		s.fail("Installation incomplete: the application is in a mixed state, retrying may be unsafe.", err)
		s.emit(models.UpdateEvent{
			Kind:   models.EventInstallResult,
			Result: &models.ResultInfo{Success: false, Reason: err.Error(), Incomplete: true},
		})

	default:
		recordInstallResult("failed")
		logger.Errorf("Install failed: %v", err)
		s.fail("Installation failed!", err)
		s.emit(models.UpdateEvent{
			Kind:   models.EventInstallResult,
			Result: &models.ResultInfo{Success: false, Reason: err.Error()},
		})
	}
}

// finishInstall moves the pipeline to Done. persistWarn is non-empty when
// the install succeeded but the configuration could not be written back.
func (s *UpdateService) finishInstall(updated *config.UpdaterConfig, persistWarn string) {
	recordInstallResult("success")
	s.mu.Lock()
	s.cfg = updated
	s.restartRequired = true
	s.state = models.StateDone
	s.mu.Unlock()

	if persistWarn != "" {
		s.emitStatus("Update installed, but saving the configuration failed: "+persistWarn,
			models.SeverityError)
	} else {
		s.emitStatus("Update installed successfully! Please restart the application.",
			models.SeveritySuccess)
	}
	s.emitState(models.StateDone)
	s.emit(models.UpdateEvent{
		Kind: models.EventInstallResult,
		Result: &models.ResultInfo{
			Success:         true,
			Reason:          persistWarn,
			RestartRequired: true,
		},
	})
}

// fail emits the failure status, passes through Failed and returns the
// pipeline to Idle. There is no automatic retry.
func (s *UpdateService) fail(message string, err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.state = models.StateFailed
	s.mu.Unlock()

	s.emitStatus(message, models.SeverityError)
	s.emitState(models.StateFailed)
	s.settleFailed()
}

// settleFailed returns the pipeline from Failed to Idle. A new trigger is
// already acceptable in Failed, so by the time this runs another operation
// may own the state; in that case it must not be overwritten.
func (s *UpdateService) settleFailed() {
	s.mu.Lock()
	if s.state != models.StateFailed {
		s.mu.Unlock()
		return
	}
	s.state = models.StateIdle
	s.mu.Unlock()
	s.emitState(models.StateIdle)
}

func (s *UpdateService) emit(ev models.UpdateEvent) {
	s.events <- ev
}

func (s *UpdateService) emitState(state models.UpdateState) {
	s.emit(models.UpdateEvent{Kind: models.EventStateChanged, State: state})
}

func (s *UpdateService) emitStatus(message string, severity models.Severity) {
	s.mu.Lock()
	s.lastMessage = message
	s.mu.Unlock()
	s.emit(models.UpdateEvent{Kind: models.EventStatusChanged, Message: message, Severity: severity})
}
