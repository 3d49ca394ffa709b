package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/client/cli"
)

const usage = `usage: estoquehub [-api URL] [-session-dir DIR] <command> [args]

commands:
  login                 sign in and store the session
  register              create an account and sign in
  logout                forget the stored session
  whoami                show the signed-in user
  dashboard [-search T] list products with summary cards
  add                   create a product
  edit <id>             change a product
  delete <id>           remove a product
  reports [-run] [-history N]
                        stock summary and low-stock products
  export [-o FILE]      save every product as JSON
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("estoquehub", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := global.String("api", envOr("ESTOQUEHUB_API_URL", "http://localhost:10000"), "API base URL")
	sessionDir := global.String("session-dir", os.Getenv("ESTOQUEHUB_SESSION_DIR"), "directory holding the session file")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	sessions, err := client.NewSessionStore(*sessionDir)
	if err != nil {
		fmt.Fprintln(stderr, cli.ErrorLine(err))
		return 1
	}
	app := cli.NewApp(client.New(*apiURL), sessions, stdin, stdout)

	if err := dispatch(ctx, app, global.Arg(0), global.Args()[1:], stderr); err != nil {
		fmt.Fprintln(stderr, app.Fail(err))
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, app *cli.App, cmd string, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "login":
		return app.RunLogin(ctx)
	case "register":
		return app.RunRegister(ctx)
	case "logout":
		return app.RunLogout()
	case "whoami":
		return app.RunWhoAmI(ctx)
	case "dashboard":
		search := fs.String("search", "", "filter by name or sku")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return app.RunDashboard(ctx, *search)
	case "add":
		return app.RunAdd(ctx)
	case "edit":
		id, err := oneArg(cmd, args)
		if err != nil {
			return err
		}
		return app.RunEdit(ctx, id)
	case "delete":
		id, err := oneArg(cmd, args)
		if err != nil {
			return err
		}
		return app.RunDelete(ctx, id)
	case "reports":
		snapshot := fs.Bool("run", false, "record a snapshot first")
		history := fs.Int("history", 0, "show the N most recent snapshots")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return app.RunReports(ctx, *snapshot, *history)
	case "export":
		out := fs.String("o", cli.DefaultExportFile, "output file")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return app.RunExport(ctx, *out)
	}
	return fmt.Errorf("unknown command %q, run 'estoquehub -h' for help", cmd)
}

func oneArg(cmd string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("usage: estoquehub %s <id>", cmd)
	}
	return args[0], nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
