package website

import (
	"fmt"
	"os/exec"
	"runtime"

	"update-keeper/cmd/root"
	"update-keeper/internal/config"
	"update-keeper/internal/env"

	"github.com/spf13/cobra"
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Open the application website in the default browser",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWebsite(); err != nil {
			fmt.Println(err)
		}
	},
}

var optConfig string

func runWebsite() error {
	cfgPath := optConfig
	if cfgPath == "" {
		cfgPath = env.UpdaterConfigPath()
	}
	cfg, err := config.LoadUpdaterConfig(cfgPath)
	if err != nil {
		return err
	}
	if cfg.WebsiteURL == "" {
		return fmt.Errorf("no website URL configured")
	}
	fmt.Printf("Opening %s\n", cfg.WebsiteURL)
	return openBrowser(cfg.WebsiteURL)
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func init() {
	websiteCmd.Flags().StringVarP(&optConfig, "config", "c", "", "Path of the updater configuration file")
	root.RootCmd.AddCommand(websiteCmd)
}
