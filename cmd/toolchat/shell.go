package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petasbytes/go-toolchat/internal/chat"
	"github.com/petasbytes/go-toolchat/internal/config"
	"github.com/petasbytes/go-toolchat/tools"
	"github.com/spf13/cobra"
)

const shellSystemPrompt = "Run shell commands with the provided tool as requested by the user, " +
	"all commands should be interpreted as shell commands"

var shellCmd = &cobra.Command{
	Use:   "shell <command>",
	Short: "Have the model run a shell command and print its output",
	Args:  cobra.ExactArgs(1),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := build([]tools.ToolDefinition{tools.ShellDefinition}, func(c *config.Config) {
		if c.System == "" {
			c.System = shellSystemPrompt
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := a.Chat.Submit(ctx, args[0], chat.StopOnTool(true))
	if err != nil {
		return err
	}
	if !res.Stopped {
		// The model answered without running anything.
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	}
	out, ok := res.ToolOutput.(tools.ShellResult)
	if !ok {
		return fmt.Errorf("unexpected shell payload %T", res.ToolOutput)
	}
	fmt.Fprint(cmd.OutOrStdout(), out.Text)
	if out.ExitCode != 0 {
		a.Logger.Warn().Int("exit_code", out.ExitCode).Msg("command failed")
	}
	return nil
}
