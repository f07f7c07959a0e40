package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "update-keeper",
	Short: "Self-update agent for a desktop application",
	Long:  `update-keeper checks a remote endpoint for a newer version, downloads the packaged update and merges it into the live installation`,
}
