package env

import (
	"os"
	"path/filepath"
)

// (default: %USERPROFILE%/.update-keeper on Windows, $HOME/.update-keeper on Linux)
var KeeperDir string = GetKeeperDir()

/**
 * Get keeper data directory path
 * @returns {string} Returns keeper directory path
 */
func GetKeeperDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".update-keeper")
}

/**
 * Get default path of the persisted updater configuration file
 * @returns {string} Returns updater config file path
 */
func UpdaterConfigPath() string {
	return filepath.Join(KeeperDir, "updater_config.json")
}

/**
 * Get directory of the running executable, the default live installation dir
 * @returns {string} Returns executable directory, "." if it cannot be resolved
 */
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
