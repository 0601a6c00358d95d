package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixiv-novel-downloader/config"
	"pixiv-novel-downloader/server"
)

type serveArgs struct {
	host string
	port int
}

var sArgs serveArgs

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&sArgs.host, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&sArgs.port, "port", 0, "listen port (overrides config)")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if sArgs.host != "" {
		cfg.Server.Host = sArgs.host
	}
	if sArgs.port != 0 {
		cfg.Server.Port = sArgs.port
	}
	return server.New(cfg).Run()
}
