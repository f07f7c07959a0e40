package check

import (
	"fmt"

	"update-keeper/cmd/root"
	"update-keeper/internal/config"
	"update-keeper/internal/env"
	"update-keeper/internal/models"
	"update-keeper/services"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a newer version is available",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCheck(); err != nil {
			fmt.Println(err)
		}
	},
}

var optConfig string

func runCheck() error {
	cfgPath := optConfig
	if cfgPath == "" {
		cfgPath = env.UpdaterConfigPath()
	}
	cfg, err := config.LoadUpdaterConfig(cfgPath)
	if err != nil {
		return err
	}
	liveDir := config.Config.InstallDir
	if liveDir == "" {
		liveDir = env.ExecutableDir()
	}

	svc, err := services.NewUpdateService(cfg, cfgPath, liveDir)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.RequestCheck(); err != nil {
		return err
	}
	for ev := range svc.Events() {
		switch ev.Kind {
		case models.EventStatusChanged:
			fmt.Println(ev.Message)
		case models.EventCheckResult:
			if ev.Check.UpdateAvailable && ev.Check.Notes != "" {
				fmt.Printf("Release notes:\n%s\n", ev.Check.Notes)
			}
			return nil
		case models.EventStateChanged:
			// the failure path ends back at idle with no result event
			if ev.State == models.StateIdle {
				return fmt.Errorf("update check failed")
			}
		}
	}
	return nil
}

func init() {
	checkCmd.Flags().StringVarP(&optConfig, "config", "c", "", "Path of the updater configuration file")
	root.RootCmd.AddCommand(checkCmd)
}
