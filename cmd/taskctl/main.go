// Package main implements taskctl, a command-line front end for the task
// list API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/phrazzld/tasklist-api/internal/client"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/viewmodel"
)

const (
	defaultAPIURL = "http://localhost:8080"
	apiURLEnv     = "TASKCTL_API"
)

const usage = `usage: taskctl [-api URL] [-session FILE] [-v] <command> [args]

commands:
  register <username> <email> <password>
  login <email> <password>
  logout
  list [all|completed|pending]
  add <text>
  rename <id> <text>
  toggle <id>
  delete <id>
  clear
  stats
`

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one taskctl invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("taskctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", envOr(apiURLEnv, defaultAPIURL), "Base URL of the task list API")
	sessionPath := fs.String("session", "", "Session file (default: user config dir)")
	verbose := fs.Bool("v", false, "Log requests and retries to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	log := logger.New(stderr, level)

	path := *sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}
	session, err := client.NewFileSession(path)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	c, err := client.New(*apiURL, session, client.WithLogger(log))
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	cli := &cli{client: c, board: viewmodel.NewBoard(c, log), out: stdout}
	if err := cli.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintln(stderr, "error:", err)
			fmt.Fprint(stderr, usage)
			return 2
		case errors.Is(err, client.ErrSignedOut):
			fmt.Fprintln(stderr, "session expired, please run: taskctl login <email> <password>")
		default:
			fmt.Fprintln(stderr, "error:", err)
		}
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type cli struct {
	client *client.Client
	board  *viewmodel.Board
	out    io.Writer
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("%w: register needs <username> <email> <password>", errUsage)
		}
		id, err := c.client.Register(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "registered user %d, now run: taskctl login %s <password>\n", id, args[1])
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("%w: login needs <email> <password>", errUsage)
		}
		sess, err := c.client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Login successful! Welcome, %s.\n", sess.User.Username)
		return nil

	case "logout":
		if err := c.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Logged out successfully")
		return nil
	}

	if !c.client.Session().SignedIn() {
		return fmt.Errorf("%w: run taskctl login first", client.ErrNotSignedIn)
	}

	switch cmd {
	case "list":
		filter := viewmodel.FilterAll
		if len(args) > 0 {
			f, err := viewmodel.ParseFilter(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			filter = f
		}
		if err := c.board.Load(ctx); err != nil {
			return err
		}
		c.board.SetFilter(filter)
		c.printBoard(true)
		return nil

	case "stats":
		if err := c.board.Load(ctx); err != nil {
			return err
		}
		c.printBoard(false)
		return nil

	case "add":
		if len(args) == 0 {
			return fmt.Errorf("%w: add needs <text>", errUsage)
		}
		return c.mutate(c.board.Add(ctx, strings.Join(args, " ")))

	case "rename":
		if len(args) < 2 {
			return fmt.Errorf("%w: rename needs <id> <text>", errUsage)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return c.mutate(c.board.Rename(ctx, id, strings.Join(args[1:], " ")))

	case "toggle", "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: %s needs <id>", errUsage, cmd)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if cmd == "toggle" {
			return c.mutate(c.board.Toggle(ctx, id))
		}
		return c.mutate(c.board.Delete(ctx, id))

	case "clear":
		n, err := c.board.Clear(ctx)
		if err != nil {
			return c.mutate(err)
		}
		fmt.Fprintf(c.out, "All tasks cleared! (%d deleted)\n", n)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// mutate prints the notification left by a board operation.
func (c *cli) mutate(err error) error {
	if note := c.board.State().Notification; !note.Empty() && err == nil {
		fmt.Fprintln(c.out, note.Message)
	}
	return err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid task id %q", errUsage, s)
	}
	return id, nil
}

func (c *cli) printBoard(withTasks bool) {
	state := c.board.State()
	st := state.Stats()
	fmt.Fprintf(c.out, "Total: %d  Completed: %d  Pending: %d  Progress: %d%%\n",
		st.Total, st.Completed, st.Pending, st.Percent)
	if !withTasks {
		return
	}

	visible := state.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(c.out, emptyMessage(state.Filter))
		return
	}
	for _, t := range visible {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(c.out, "[%s] %4d  %s\n", mark, t.ID, t.Text)
	}
}

func emptyMessage(f viewmodel.Filter) string {
	if f == viewmodel.FilterAll {
		return "No tasks yet."
	}
	return fmt.Sprintf("No %s tasks.", f)
}
