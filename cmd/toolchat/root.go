package main

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolchat/internal/app"
	"github.com/petasbytes/go-toolchat/internal/config"
	"github.com/petasbytes/go-toolchat/tools"
	"github.com/spf13/cobra"
)

var configPath string

// clientOptions are appended to the SDK client options of every command.
var clientOptions []option.RequestOption

var rootCmd = &cobra.Command{
	Use:           "toolchat",
	Short:         "Tool-calling chat with Claude",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(shellCmd)
}

// build loads config, applies override and wires an App exposing defs.
func build(defs []tools.ToolDefinition, override func(*config.Config)) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key; export ANTHROPIC_API_KEY or set api_key in the config file")
	}
	if override != nil {
		override(&cfg)
	}
	return app.New(cfg, app.Params{Tools: defs, ClientOptions: clientOptions})
}
