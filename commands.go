package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/spf13/cobra"

	"earshot/internal/config"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		data, err := cfg.TOML()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cfg.File != "" {
			fmt.Fprintf(out, "# from %s\n", cfg.File)
		}
		_, err = out.Write(data)
		return err
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the key bindings and keyboard layouts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		handler, err := newInputHandler(cfg)
		if err != nil {
			return err
		}

		keys := handler.KeyMap()
		h := help.New()
		h.Width = 100
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, h.FullHelpView(keys.FullHelp()))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Layouts: %s (active: %s)\n", strings.Join(handler.Layouts(), ", "), handler.Layout())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd, keysCmd)
}
