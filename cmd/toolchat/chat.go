package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/go-toolchat/internal/chat"
	"github.com/petasbytes/go-toolchat/memory"
	"github.com/petasbytes/go-toolchat/tools"
	"github.com/spf13/cobra"
)

var noPersist bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat with the file and shell tools",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&noPersist, "no-persist", false, "do not load or save the conversation transcript")
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := build(tools.Registry(), nil)
	if err != nil {
		return err
	}
	log := a.Logger
	persistPath := a.Config.Memory.Path

	var persisted []memory.Message
	if !noPersist {
		persisted, err = memory.LoadConversation(persistPath)
		if err != nil {
			log.Warn().Err(err).Str("path", persistPath).Msg("failed to load conversation")
		}
	}
	restore(a.Chat, memory.ToParams(persisted))
	// History after the last successful turn; a failed turn rolls back to it.
	snapshot := a.Chat.History()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Chat with Claude (Ctrl-C to quit)")
	for {
		fmt.Fprint(out, "\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		res, err := a.Chat.Submit(ctx, line, chat.AutoReset(false))
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(out, "error: %v\n", err)
			restore(a.Chat, snapshot)
			continue
		}
		printReply(out, res.Text)
		snapshot = a.Chat.History()

		if noPersist {
			continue
		}
		if err := memory.SaveConversation(persistPath, memory.FromParams(snapshot)); err != nil {
			log.Warn().Err(err).Str("path", persistPath).Msg("failed to save conversation")
		}
	}
}

// restore replaces the chat history with msgs.
func restore(c *chat.Chat, msgs []anthropic.MessageParam) {
	c.Reset()
	for _, m := range msgs {
		c.AddMessage(m)
	}
}

func printReply(w io.Writer, text string) {
	fmt.Fprintf(w, "\u001b[93mClaude\u001b[0m: %s\n", text)
}
