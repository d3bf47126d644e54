package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mahdiidarabi/sigutil/internal/config"
	"github.com/mahdiidarabi/sigutil/internal/logging"
	"github.com/mahdiidarabi/sigutil/pkg/sigutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	usage string
	run   func(a *app, args []string) error
}

var commands = map[string]command{
	"personal-sign":    {"sign a personal message with SIGUTIL_PRIVATE_KEY", runPersonalSign},
	"personal-recover": {"recover the address that signed a personal message", runPersonalRecover},
	"extract-pubkey":   {"recover the public key that signed a personal message", runExtractPublicKey},
	"typed-hash":       {"print the digest of a typed-data document", runTypedHash},
	"typed-sign":       {"sign a typed-data document with SIGUTIL_PRIVATE_KEY", runTypedSign},
	"typed-recover":    {"recover the address that signed a typed-data document", runTypedRecover},
	"normalize":        {"print a value as lower-case 0x hex", runNormalize},
	"batch-recover":    {"recover the signers of a JSON list of requests", runBatchRecover},
}

// app holds what a subcommand needs. Subcommands register their own flags on
// fs and then call parse, which also loads the config and builds the client.
type app struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer

	fs         *flag.FlagSet
	configPath *string
	dotEnvPath *string

	cfg    *config.Config
	logger *zap.Logger
	client *sigutil.Client
	parser *sigutil.JSONParser
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(stderr)
		return errors.Errorf("unknown command %q", args[0])
	}

	fs := flag.NewFlagSet("sigutil "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	a := &app{
		ctx:        ctx,
		stdout:     stdout,
		stderr:     stderr,
		fs:         fs,
		configPath: fs.String("config", "", "Path to a YAML config file"),
		dotEnvPath: fs.String("env", ".env", "Path to a .env file (ignored when missing)"),
		parser:     &sigutil.JSONParser{},
	}
	err := cmd.run(a, args[1:])
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func (a *app) parse(args []string) error {
	if err := a.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*a.configPath, *a.dotEnvPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log, zapcore.AddSync(a.stderr))
	a.client = sigutil.NewClient().
		WithLogger(a.logger).
		WithMessagePrefix(cfg.Prefix()).
		WithWorkers(cfg.Workers)
	return nil
}

func (a *app) println(v ...interface{}) {
	fmt.Fprintln(a.stdout, v...)
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: sigutil <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-18s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'sigutil <command> -h' for the flags of a command.")
	fmt.Fprintln(w)
	if err := config.Usage(w); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
