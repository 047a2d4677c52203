package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/14kear/pollboard/internal/app"
	"github.com/14kear/pollboard/internal/config"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/validation"
	"github.com/14kear/pollboard/utils"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/joho/godotenv"
)

const usage = `usage: pollboard [-config path] [-email e -password p] <command> [args]

commands:
  whoami
  login | logout
  signup -first name -last name
  polls active|finished|mine|recent [-page n] [-category c] [-sort key] [-search text]
  poll <id>
  vote <poll> <option id or name>
  comments <poll> [-watch]
  comment <poll> <text>
  create-poll -title t [-description d] -category c -days n -option a -option b ...
  delete-poll <id>
  stats
  username <name>
  avatar <file>
  oauth github|google
`

// errUsage is reported after the usage text has already been printed.
var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("pollboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	email := fs.String("email", os.Getenv("POLLBOARD_EMAIL"), "sign in with this email")
	password := fs.String("password", os.Getenv("POLLBOARD_PASSWORD"), "password for -email")

	path, err := config.FetchPath(fs, args)
	if err != nil {
		return 2
	}
	if path == "" {
		path = "config/local.yaml"
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Read(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	log := utils.NewWithWriter(cfg.Env, stderr)

	application, err := app.New(log, cfg)
	if err != nil {
		log.Error("failed to build app", sl.Err(err))
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &cli{app: application, out: stdout, errOut: stderr, email: *email, password: *password}

	if err := cli.mount(ctx); err != nil {
		return cli.report(err)
	}
	if err := cli.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		return cli.report(err)
	}
	return 0
}

func (c *cli) report(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	if redirect, ok := failure.IsRedirect(err); ok {
		fmt.Fprintf(c.errOut, "sign in required (pass -email and -password); web path %s\n", redirect.To)
		return 1
	}
	if fields, ok := validation.AsFieldErrors(err); ok {
		fmt.Fprintln(c.errOut, fields.Error())
		return 1
	}
	fmt.Fprintln(c.errOut, failure.Message(err, err.Error()))
	return 1
}
