package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mailhog "github.com/rpkamp/mailhog-client-go"
)

const usageText = `
Usage:
  mailhogctl [OPTIONS] COMMAND [ARGS]

  Inspect and manage the inbox of a Mailhog server.

Version:
  %s

Commands:
  list                          List messages matching the filters
  count                         Print the number of messages
  latest N                      List the N most recent messages
  show ID                       Show a single message including its body
  delete ID                     Delete a single message
  purge                         Delete every message
  release ID HOST PORT EMAIL    Forward a message to an SMTP server
  wait                          Block until a message matching the filters arrives

Options:
%s
`

const (
	defaultURL         = "http://localhost:8025"
	defaultTimeout     = 30 * time.Second
	defaultWaitTimeout = 30 * time.Second
)

// Version is set at compile-time.
var Version = "dev"

// Config holds the streams the command writes to.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// settings is the resolved configuration after flags, environment and
// config file have been merged.
type settings struct {
	URL         string
	Timeout     time.Duration
	WaitTimeout time.Duration
	LogLevel    string
	Output      string
}

// mailhogClient is the subset of *mailhog.Client the commands use.
type mailhogClient interface {
	FindLatestMessages(ctx context.Context, n int) ([]*mailhog.Message, error)
	FindMessagesSatisfying(ctx context.Context, spec mailhog.Specification) ([]*mailhog.Message, error)
	GetNumberOfMessages(ctx context.Context) (int, error)
	GetMessageByID(ctx context.Context, messageID string) (*mailhog.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error
	PurgeMessages(ctx context.Context) error
	ReleaseMessage(ctx context.Context, messageID, host string, port int, emailAddress string) error
	WaitForMessage(ctx context.Context, spec mailhog.Specification, opts ...mailhog.WaitOption) (*mailhog.Message, error)
}

// clientFactory creates the client used by run. Tests replace it.
var clientFactory = func(s settings, logger zerolog.Logger) (mailhogClient, error) {
	client, err := mailhog.New(s.URL,
		mailhog.WithTimeout(s.Timeout),
		mailhog.WithLogger(logger),
		mailhog.WithTrace(logger.GetLevel() == zerolog.TraceLevel),
		mailhog.WithUserAgent("mailhogctl/"+Version),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// filters narrows list and wait down to matching messages.
type filters struct {
	subject  string
	from     string
	to       string
	contains string
}

func (f filters) spec() mailhog.Specification {
	var specs []mailhog.Specification
	if f.subject != "" {
		specs = append(specs, mailhog.SubjectIs(f.subject))
	}
	if f.from != "" {
		specs = append(specs, mailhog.SentBy(f.from))
	}
	if f.to != "" {
		specs = append(specs, mailhog.SentTo(f.to))
	}
	if f.contains != "" {
		specs = append(specs, mailhog.BodyContains(f.contains))
	}
	return mailhog.AllOf(specs...)
}

func run(ctx context.Context, args []string, cfg *Config) error {
	if len(args) == 0 {
		args = []string{"mailhogctl"}
	}

	var (
		configFilename string
		f              filters
	)

	flags := pflag.NewFlagSet("mailhogctl", pflag.ContinueOnError)
	flags.SetOutput(cfg.Stderr)
	flags.StringVarP(&configFilename, "config", "c", "", "Path to a configuration file")
	flags.String("url", defaultURL, "Base URL of the Mailhog server")
	flags.Duration("timeout", defaultTimeout, "Timeout of a single HTTP request")
	flags.Duration("wait-timeout", defaultWaitTimeout, "How long wait blocks before giving up")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringP("output", "o", formatTable, "Output format (table, json, yaml)")
	flags.StringVar(&f.subject, "subject", "", "Only messages with exactly this subject")
	flags.StringVar(&f.from, "from", "", "Only messages sent by this address")
	flags.StringVar(&f.to, "to", "", "Only messages sent to this address")
	flags.StringVar(&f.contains, "contains", "", "Only messages whose body contains this text")
	flags.Usage = printUsage(cfg.Stderr, flags)

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("usage: mailhogctl [OPTIONS] COMMAND [ARGS]")
	}

	s, err := loadSettings(flags, configFilename)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Stderr, s.LogLevel)
	if err != nil {
		return err
	}

	p, err := newPrinter(cfg.Stdout, s.Output)
	if err != nil {
		return err
	}

	client, err := clientFactory(s, logger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	cmd := &commands{client: client, out: p, filters: f, settings: s}
	return cmd.dispatch(ctx, flags.Args())
}

// loadSettings merges flags, MAILHOG_* environment variables and the
// optional config file, in that order of precedence.
func loadSettings(flags *pflag.FlagSet, filename string) (settings, error) {
	v := viper.New()
	v.SetEnvPrefix("MAILHOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"url":          "url",
		"timeout":      "timeout",
		"wait.timeout": "wait-timeout",
		"log.level":    "log-level",
		"output":       "output",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return settings{}, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("could not load configuration: %w", err)
		}
	}

	return settings{
		URL:         v.GetString("url"),
		Timeout:     v.GetDuration("timeout"),
		WaitTimeout: v.GetDuration("wait.timeout"),
		LogLevel:    v.GetString("log.level"),
		Output:      v.GetString("output"),
	}, nil
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("unknown log level: %w", err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func printUsage(w io.Writer, flags *pflag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, usageText,
			Version,
			flags.FlagUsages())
	}
}

type commands struct {
	client   mailhogClient
	out      *printer
	filters  filters
	settings settings
}

func (c *commands) dispatch(ctx context.Context, args []string) error {
	switch name := args[0]; name {
	case "list":
		return c.list(ctx)
	case "count":
		return c.count(ctx)
	case "latest":
		if len(args) < 2 {
			return errors.New("usage: mailhogctl latest N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}
		return c.latest(ctx, n)
	case "show":
		if len(args) < 2 {
			return errors.New("usage: mailhogctl show ID")
		}
		return c.show(ctx, args[1])
	case "delete":
		if len(args) < 2 {
			return errors.New("usage: mailhogctl delete ID")
		}
		return c.delete(ctx, args[1])
	case "purge":
		return c.purge(ctx)
	case "release":
		if len(args) < 5 {
			return errors.New("usage: mailhogctl release ID HOST PORT EMAIL")
		}
		port, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[3], err)
		}
		return c.release(ctx, args[1], args[2], port, args[4])
	case "wait":
		return c.wait(ctx)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

func (c *commands) list(ctx context.Context) error {
	messages, err := c.client.FindMessagesSatisfying(ctx, c.filters.spec())
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	return c.out.messages(messages)
}

func (c *commands) count(ctx context.Context) error {
	n, err := c.client.GetNumberOfMessages(ctx)
	if err != nil {
		return fmt.Errorf("count messages: %w", err)
	}
	return c.out.count(n)
}

func (c *commands) latest(ctx context.Context, n int) error {
	messages, err := c.client.FindLatestMessages(ctx, n)
	if err != nil {
		return fmt.Errorf("latest messages: %w", err)
	}
	return c.out.messages(messages)
}

func (c *commands) show(ctx context.Context, id string) error {
	m, err := c.client.GetMessageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("show message: %w", err)
	}
	return c.out.message(m)
}

func (c *commands) delete(ctx context.Context, id string) error {
	if err := c.client.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return c.out.status("deleted", id)
}

func (c *commands) purge(ctx context.Context) error {
	if err := c.client.PurgeMessages(ctx); err != nil {
		return fmt.Errorf("purge messages: %w", err)
	}
	return c.out.status("purged", "")
}

func (c *commands) release(ctx context.Context, id, host string, port int, email string) error {
	if err := c.client.ReleaseMessage(ctx, id, host, port, email); err != nil {
		return fmt.Errorf("release message: %w", err)
	}
	return c.out.status("released", id)
}

func (c *commands) wait(ctx context.Context) error {
	m, err := c.client.WaitForMessage(ctx, c.filters.spec(),
		mailhog.WithWaitTimeout(c.settings.WaitTimeout))
	if err != nil {
		return fmt.Errorf("wait for message: %w", err)
	}
	return c.out.message(m)
}
