package update

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"update-keeper/cmd/root"
	"update-keeper/internal/config"
	"update-keeper/internal/env"
	"update-keeper/internal/models"
	"update-keeper/services"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check, download and install the latest version",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runUpdate(); err != nil {
			fmt.Println(err)
		}
	},
}

var (
	optConfig string
	optYes    bool
)

func runUpdate() error {
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
	available := false
	for done := false; !done; {
		ev := <-svc.Events()
		switch ev.Kind {
		case models.EventStatusChanged:
			fmt.Println(ev.Message)
		case models.EventCheckResult:
			available = ev.Check.UpdateAvailable
			if available && ev.Check.Notes != "" {
				fmt.Printf("Release notes:\n%s\n", ev.Check.Notes)
			}
			done = true
		case models.EventStateChanged:
			if ev.State == models.StateIdle {
				return fmt.Errorf("update check failed")
			}
		}
	}
	if !available {
		return nil
	}

	if !optYes && !confirm("Download and install now? [y/N]: ") {
		return nil
	}

	if err := svc.RequestDownloadAndInstall(); err != nil {
		return err
	}
	lastPercent := -1
	for {
		ev := <-svc.Events()
		switch ev.Kind {
		case models.EventProgressChanged:
			if ev.Progress.Percent >= 0 && ev.Progress.Percent != lastPercent {
				lastPercent = ev.Progress.Percent
				fmt.Printf("\rDownloading... %d%%", lastPercent)
			}
		case models.EventStatusChanged:
			// progress rendering owns the download line
			if strings.HasPrefix(ev.Message, "Downloading...") {
				continue
			}
			if lastPercent >= 0 {
				fmt.Println()
				lastPercent = -1
			}
			fmt.Println(ev.Message)
		case models.EventInstallResult:
			if !ev.Result.Success {
				if ev.Result.Incomplete {
					return fmt.Errorf("installation incomplete: %s", ev.Result.Reason)
				}
				return fmt.Errorf("installation failed: %s", ev.Result.Reason)
			}
			return nil
		case models.EventDownloadResult:
			if !ev.Result.Success {
				return fmt.Errorf("download failed: %s", ev.Result.Reason)
			}
		}
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	updateCmd.Flags().StringVarP(&optConfig, "config", "c", "", "Path of the updater configuration file")
	updateCmd.Flags().BoolVarP(&optYes, "yes", "y", false, "Install without asking for confirmation")
	root.RootCmd.AddCommand(updateCmd)
}
