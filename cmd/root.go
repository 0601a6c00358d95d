package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var configPath string

var RootCmd = &cobra.Command{
	Use:   "pixiv-novel-downloader",
	Short: "Download pixiv novels and novel series as text archives",
	Long:  "Download pixiv novels and novel series as text archives, as single files or per-chapter zip bundles",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		levelStr, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return
		}
		if level, err := log.ParseLevel(levelStr); err == nil {
			log.SetLevel(level)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	RootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}
