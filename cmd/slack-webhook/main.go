package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/qj0r9j0vc2/slack-webhook/internal/adapter/dto"
	"github.com/qj0r9j0vc2/slack-webhook/internal/app"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/config"
	"github.com/qj0r9j0vc2/slack-webhook/internal/infrastructure/logging"
	"github.com/qj0r9j0vc2/slack-webhook/internal/usecase/notify"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches to the send or serve command and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 && (args[0] == "send" || args[0] == "serve") {
		command, args = args[0], args[1:]
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "slack-webhook: %v\n", err)
		return 1
	}

	var err error
	switch command {
	case "send":
		err = runSend(ctx, args, stdout, stderr)
	default:
		err = runServe(ctx, args, stderr)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "slack-webhook %s: %v\n", command, err)
		return 1
	}
	return 0
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}

// runSend performs a single notification and exits.
func runSend(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("send", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", defaultConfigPath(), "path to the YAML config file")
	webhookURL := flags.String("url", "", "incoming webhook URL (overrides config and SLACK_WEBHOOK_URL)")
	header := flags.String("header", "", "send a header message with this title")
	info := flags.String("info", "", "markdown section below --header")
	markdown := flags.String("markdown", "", "send a single markdown section")
	text := flags.String("text", "", "fallback text, or the whole message when used alone")
	blocks := flags.String("blocks", "", "raw Block Kit JSON array sent with --text")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, func(c *config.Config) {
		if *webhookURL != "" {
			c.Webhook.URL = *webhookURL
		}
	})
	if err != nil {
		return err
	}

	req := dto.NotifyRequest{
		Text:     *text,
		Header:   *header,
		Markdown: *markdown,
	}
	if flags.Changed("info") {
		req.Info = info
	}
	if *blocks != "" {
		req.Blocks = []byte(*blocks)
	}

	input, err := dto.ToNotifyInput(req)
	if err != nil {
		return err
	}

	logger := logging.New(stderr, cfg.Logging.Level, "text")
	client := app.NewWebhookClient(cfg.Webhook.URL, cfg.Webhook.Timeout, cfg.Webhook.UserAgent)
	uc := notify.NewNotifyUseCase(client, cfg.Webhook.ChunkSize, nil, logging.NewSlogAdapter(logger))

	output, err := uc.Execute(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "sent %d block(s) in %d request(s)\n", output.Blocks, output.Requests)
	return nil
}

// runServe runs the HTTP relay until ctx is cancelled.
func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", defaultConfigPath(), "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	application, err := app.New(*configPath, version, os.Stdout)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	return application.Start(ctx)
}
