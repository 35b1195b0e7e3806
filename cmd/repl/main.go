// REPL binary for interactively building and executing SQL queries.
//
// Usage:
//
//	go run ./cmd/repl --engine sqlite --dsn ':memory:'
//
// Flags fall back to the SQLBEE_ENGINE and DATABASE_URL environment
// variables; with neither set, an in-memory SQLite database is opened.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ergochat/readline"
	"github.com/fatih/color"
)

var cli struct {
	Engine string `help:"Database engine: sqlite, postgres, or mysql." enum:"sqlite,postgres,mysql" default:"sqlite" env:"SQLBEE_ENGINE"`
	DSN    string `help:"Connection string." default:":memory:" env:"DATABASE_URL"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("sqlbee"),
		kong.Description("Interactive SQL query builder shell."),
	)

	sess, err := NewSession(cli.Engine, cli.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "sqlbee> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	color.Cyan("Connected to %s (%s). Type 'help' for commands.", cli.Engine, sanitizeDSN(cli.DSN))

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF || err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		if out, err := sess.Execute(line); err != nil {
			color.Red("  %v", err)
		} else if out != "" {
			fmt.Print(out)
		}
	}
}

// historyPath returns the path of the persistent readline history file.
func historyPath() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join(u.HomeDir, ".sqlbee_history")
}
