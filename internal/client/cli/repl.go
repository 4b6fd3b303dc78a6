package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface runREPL drives. *App implements it.
type execIface interface {
	isLoggedIn() bool
	Go(ctx context.Context, route string) error
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Restore(ctx context.Context, path string) error
	Save(ctx context.Context) error
	Reset(ctx context.Context) error
	Saved(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Download(ctx context.Context, id, dest string) error
}

const (
	helpSignedOut = "Available commands: login, signup, go <route>, whoami, help, exit"
	helpSignedIn  = "Available commands: go <route>, restore <file>, save, reset, saved (list), show <id>, download [<id>] <dest>, delete <id>, clear, whoami, logout, help, exit\n" +
		"Routes: home, features, restore, saved, about"
)

// runREPL reads one command per line from reader and dispatches it to a
// until EOF, "exit"/"quit" or ctx is done. Prompts inside commands read from
// the same reader, so piped answers follow their command. Handlers report
// their own errors, so the returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("rr %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "go":
			if len(args) == 0 {
				printlnFn("Usage: go <route>")
				continue
			}
			_ = a.Go(ctx, args[0])

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "restore":
			if len(args) == 0 {
				printlnFn("Usage: restore <file>")
				continue
			}
			_ = a.Restore(ctx, joinArgs(args))

		case "save":
			_ = a.Save(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "saved", "list", "l":
			_ = a.Saved(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "download":
			switch len(args) {
			case 0:
				printlnFn("Usage: download [<id>] <dest>")
			case 1:
				_ = a.Download(ctx, "", args[0])
			default:
				_ = a.Download(ctx, args[0], joinArgs(args[1:]))
			}

		case "delete", "rm":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
