// Package app wires configuration, logging, the SDK client, tools and the
// chat loop together with go.uber.org/dig.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolchat/internal/chat"
	"github.com/petasbytes/go-toolchat/internal/config"
	"github.com/petasbytes/go-toolchat/internal/fsops"
	"github.com/petasbytes/go-toolchat/internal/provider"
	"github.com/petasbytes/go-toolchat/internal/telemetry"
	"github.com/petasbytes/go-toolchat/tools"
	"github.com/rs/zerolog"
	"go.uber.org/dig"
)

// App holds the resolved services for one command invocation.
type App struct {
	Config config.Config
	Logger zerolog.Logger
	Chat   *chat.Chat
}

// Params customises New. Zero values pick the defaults.
type Params struct {
	// Tools exposed to the model. Nil means tools.Registry().
	Tools []tools.ToolDefinition
	// LogOutput receives console logs. Nil means stderr.
	LogOutput io.Writer
	// ClientOptions are appended to the SDK client options.
	ClientOptions []option.RequestOption
}

type toolset []tools.ToolDefinition

// New builds an App from cfg. It also applies process-wide settings: the
// sandbox roots and telemetry gating.
func New(cfg config.Config, p Params) (*App, error) {
	if p.Tools == nil {
		p.Tools = tools.Registry()
	}
	if p.LogOutput == nil {
		p.LogOutput = os.Stderr
	}

	d := dig.New()
	providers := []any{
		func() config.Config { return cfg },
		func() toolset { return toolset(p.Tools) },
		func() (zerolog.Logger, error) { return NewLogger(p.LogOutput, cfg.Log.Level) },
		func() *anthropic.Client { return newClient(cfg, p.ClientOptions) },
		func(ts toolset) *tools.Dispatcher { return tools.NewDispatcher(ts) },
		newChat,
	}
	for _, fn := range providers {
		if err := d.Provide(fn); err != nil {
			return nil, fmt.Errorf("app: provide: %w", err)
		}
	}

	if err := d.Invoke(configureRuntime); err != nil {
		return nil, fmt.Errorf("app: %w", dig.RootCause(err))
	}

	var a *App
	err := d.Invoke(func(cfg config.Config, log zerolog.Logger, c *chat.Chat) {
		a = &App{Config: cfg, Logger: log, Chat: c}
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", dig.RootCause(err))
	}
	return a, nil
}

// NewLogger returns a console logger at the named level ("" means info).
func NewLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func configureRuntime(cfg config.Config, log zerolog.Logger) error {
	if err := fsops.Configure(cfg.Sandbox.ReadRoot, cfg.Sandbox.WriteRoot); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	telemetry.Configure(cfg.Telemetry.Observe, cfg.Telemetry.ArtifactsDir)
	log.Debug().
		Str("model", cfg.Model).
		Int("retry_attempts", cfg.Retry.Attempts).
		Dur("retry_backoff", cfg.Retry.Backoff).
		Bool("observe", cfg.Telemetry.Observe).
		Msg("runtime configured")
	return nil
}

func newClient(cfg config.Config, extra []option.RequestOption) *anthropic.Client {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)
	return provider.NewAnthropicClient(opts...)
}

func newChat(cfg config.Config, log zerolog.Logger, client *anthropic.Client, ts toolset, d *tools.Dispatcher) (*chat.Chat, error) {
	specs, err := tools.AdaptDefinitions(ts)
	if err != nil {
		return nil, err
	}
	return chat.New(&client.Messages, chat.Config{
		Model:         anthropic.Model(cfg.Model),
		System:        cfg.System,
		Tools:         specs,
		Provider:      d,
		MaxTokens:     cfg.MaxTokens,
		RetryAttempts: cfg.Retry.Attempts,
		RetryBackoff:  cfg.Retry.Backoff,
	}, chat.WithLogger(log))
}
