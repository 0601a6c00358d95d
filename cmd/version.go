package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixiv-novel-downloader/config"
)

var versionCmd = &cobra.Command{
	Use: "version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("version: ", config.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
