package cmd

import (
	"fmt"

	"update-keeper/cmd/root"
	"update-keeper/internal/config"
	"update-keeper/internal/env"

	"github.com/spf13/cobra"
)

var SoftwareVer = ""
var BuildTime = ""
var BuildTag = ""
var BuildCommitId = ""

/**
 * Print build information of the updater itself, followed by the managed
 * application's persisted version when the updater configuration loads
 * @param {string} cfgPath - Path of the updater configuration file
 */
func PrintVersions(cfgPath string) {
	fmt.Printf("update-keeper %s\n", SoftwareVer)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Build Tag: %s\n", BuildTag)
	fmt.Printf("Build Commit ID: %s\n", BuildCommitId)

	cfg, err := config.LoadUpdaterConfig(cfgPath)
	if err != nil {
		fmt.Printf("Managed application: unknown (%v)\n", err)
		return
	}
	fmt.Printf("Managed application: %s v%s\n", cfg.AppName, cfg.CurrentVersion)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `The 'version' command shows the updater build details and the managed application's installed version`,

	Run: func(cmd *cobra.Command, args []string) {
		PrintVersions(env.UpdaterConfigPath())
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)

	versionCmd.Example = `  update-keeper version`
}
