package update

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"update-keeper/internal/config"
	"update-keeper/internal/logger"
	"update-keeper/internal/models"
)

// Name of the optional version descriptor at the package root.
const versionDescriptorName = "version.json"

/**
 * Installer extracts a downloaded package and merges it into the live
 * installation directory
 */
type Installer struct {
	skipNames map[string]bool
}

/**
 * Create new installer instance
 * @param {...string} selfNames - Entry names that must never be overwritten,
 * matched case-insensitively at any depth (the running updater's own
 * executable and source artifacts)
 * @returns {*Installer} New installer instance
 */
func NewInstaller(selfNames ...string) *Installer {
	skip := make(map[string]bool, len(selfNames))
	for _, name := range selfNames {
		if name != "" {
			skip[strings.ToLower(name)] = true
		}
	}
	return &Installer{skipNames: skip}
}

/**
 * Install a downloaded package into the live directory
 * @param {string} packagePath - Path of the downloaded zip archive
 * @param {string} stagingDir - Staging area owned by the controller
 * @param {string} liveDir - Live installation directory to merge into
 * @param {*config.UpdaterConfig} cfg - Current persisted configuration
 * @param {string} cfgPath - Path the updated configuration is written to
 * @returns {*config.UpdaterConfig} Updated configuration (new version when a
 * descriptor was present, otherwise unchanged)
 * @returns {error} KindArchive before any live file is touched (safe to
 * abort), KindFilesystem during the merge (check IsIncomplete),
 * KindConfigPersist when the merge succeeded but the config write failed
 * @description
 * - Extraction happens fully inside the staging area; it is the last
 *   safe-to-abort point
 * - The merge overwrites live files one by one and is not transactional
 * - A missing or malformed version descriptor never fails the install;
 *   the prior version is kept
 */
func (ins *Installer) Install(packagePath, stagingDir, liveDir string, cfg *config.UpdaterConfig, cfgPath string) (*config.UpdaterConfig, error) {
	extractDir := filepath.Join(stagingDir, "extracted")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, newError(KindFilesystem, fmt.Errorf("create extraction directory: %w", err))
	}

	if err := ins.extractArchive(packagePath, extractDir); err != nil {
		return nil, err
	}

	touched := false
	if err := ins.mergeDir(extractDir, liveDir, &touched); err != nil {
		return nil, &Error{Kind: KindFilesystem, Incomplete: touched, Err: err}
	}

	updated := *cfg
	if ver, ok := readVersionDescriptor(extractDir); ok {
		updated.CurrentVersion = ver
	}

	if err := config.SaveUpdaterConfig(cfgPath, &updated); err != nil {
		// The file merge already succeeded; report the persist failure
		// distinctly and do not roll back.
		return &updated, newError(KindConfigPersist, err)
	}
	return &updated, nil
}

/**
 * Extract the zip archive fully into the extraction directory
 * @returns {error} KindArchive for corrupt archives and unsafe entry paths,
 * KindFilesystem for local write failures (both still safe: no live file
 * has been touched yet)
 */
func (ins *Installer) extractArchive(packagePath, extractDir string) error {
	reader, err := zip.OpenReader(packagePath)
	if err != nil {
		return newError(KindArchive, fmt.Errorf("open archive '%s': %w", packagePath, err))
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target, err := safeJoin(extractDir, entry.Name)
		if err != nil {
			return newError(KindArchive, err)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return newError(KindFilesystem, fmt.Errorf("create '%s': %w", target, err))
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return newError(KindFilesystem, fmt.Errorf("create '%s': %w", filepath.Dir(target), err))
		}
		if err := extractFile(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return newError(KindArchive, fmt.Errorf("read archive entry '%s': %w", entry.Name, err))
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
	if err != nil {
		return newError(KindFilesystem, fmt.Errorf("create '%s': %w", target, err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return newError(KindArchive, fmt.Errorf("extract '%s': %w", entry.Name, err))
	}
	return dst.Close()
}

// safeJoin rejects entries that would escape the extraction directory.
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal archive entry path '%s'", name)
	}
	return target, nil
}

/**
 * Recursively merge srcDir into dstDir, overwriting files unconditionally
 * @param {*bool} touched - Set once the first live file is opened for
 * writing; a later failure then means a mixed old/new installation
 * @description
 * - Directories are created in the destination when absent
 * - Entries matching the updater's own artifacts are skipped at any depth
 */
func (ins *Installer) mergeDir(srcDir, dstDir string, touched *bool) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("read '%s': %w", srcDir, err)
	}
	for _, entry := range entries {
		if ins.skipNames[strings.ToLower(entry.Name())] {
			logger.Infof("Skipping own artifact '%s' during merge", entry.Name())
			continue
		}
		srcPath := filepath.Join(srcDir, entry.Name())
		dstPath := filepath.Join(dstDir, entry.Name())

		if entry.IsDir() {
			if err := os.MkdirAll(dstPath, 0755); err != nil {
				return fmt.Errorf("create '%s': %w", dstPath, err)
			}
			if err := ins.mergeDir(srcPath, dstPath, touched); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath, touched); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(srcPath, dstPath string, touched *bool) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open '%s': %w", srcPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat '%s': %w", srcPath, err)
	}

	*touched = true
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy '%s': %w", dstPath, err)
	}
	return dst.Close()
}

/**
 * Read the optional version descriptor from the extracted contents
 * @returns {string} New version string
 * @returns {bool} True if a descriptor was present and parsed
 * @description
 * - Parse errors are logged and ignored; the install itself already
 *   succeeded at this point
 */
func readVersionDescriptor(extractDir string) (string, bool) {
	path := filepath.Join(extractDir, versionDescriptorName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Read version descriptor '%s' failed: %v", path, err)
		}
		return "", false
	}
	var desc models.VersionDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		logger.Warnf("Parse version descriptor '%s' failed: %v", path, err)
		return "", false
	}
	if desc.Version == "" {
		return "", false
	}
	return desc.Version, true
}
