package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tunneldash/tunneldash/internal/appupdate"
	"github.com/tunneldash/tunneldash/internal/config"
	"github.com/tunneldash/tunneldash/internal/version"
)

func main() {
	if os.Getenv("TUNNELDASH_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "tunneldash",
		Short: "TunnelDash is a terminal dashboard for proxy panel traffic usage.",
		Run: func(_ *cobra.Command, _ []string) {
			runDashboard(cfg)
		},
	}

	root.AddCommand(newVersionCommand(), newLoginCommand(), newLogoutCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and check for updates.",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println("tunneldash " + version.String())

			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil {
				log.Printf("update check: %v", err)
				return
			}
			if result.UpdateAvailable {
				fmt.Printf("Update available: %s → %s\n", result.CurrentVersion, result.LatestVersion)
				fmt.Printf("  %s\n", result.UpgradeHint)
			}
		},
	}
}

func newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <panel-url> <token>",
		Short: "Store the API token for a panel.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			panelURL, token := args[0], args[1]
			if err := config.SaveToken(panelURL, token); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.PanelURL == "" {
				cfg.PanelURL = panelURL
				if err := config.Save(cfg); err != nil {
					return err
				}
			}

			fmt.Printf("Token saved for %s\n", panelURL)
			return nil
		},
	}
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <panel-url>",
		Short: "Remove the stored API token for a panel.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.DeleteToken(args[0]); err != nil {
				return err
			}
			fmt.Printf("Token removed for %s\n", args[0])
			return nil
		},
	}
}
