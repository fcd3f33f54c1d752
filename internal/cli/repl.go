package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Collections(ctx context.Context) error
	NewCollection(ctx context.Context, name string) error
	RenameCollection(ctx context.Context, args []string) error
	DeleteCollection(ctx context.Context, name string) error
	UseCollection(ctx context.Context, name string) error
	Docs(ctx context.Context) error
	Upload(ctx context.Context, paths []string) error
	Delete(ctx context.Context, names []string) error
	Ask(ctx context.Context, question string) error
	History(ctx context.Context) error
	SaveSession(ctx context.Context, name string) error
	LoadSession(ctx context.Context, id string) error
	Sessions(ctx context.Context) error
	RemoveSession(ctx context.Context, id string) error
	NewChat(ctx context.Context) error
	Settings(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
}

const helpLoggedOut = "Available commands: login, signup, help, exit"
const helpLoggedIn = `Available commands:
  collections | newcol <name> | rencol <old> <new> | delcol <name> | use <name>
  docs | upload <path>... | delete <name>...
  ask <question> | history | newchat | save [name] | load <id> | sessions | rmsession <id>
  settings [key value] | sync | logout | exit`

// runREPL reads lines, dispatches the first token as a command, and loops
// until EOF or exit. Handlers report their own errors; the loop only prints
// them and keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Tia: ask your documents (type 'help' for commands)")

	for {
		fmt.Printf("tia (%s)> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx)
		case "signup":
			err = a.Signup(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "collections":
			err = a.Collections(ctx)
		case "newcol":
			err = a.NewCollection(ctx, strings.Join(args, " "))
		case "rencol":
			err = a.RenameCollection(ctx, args)
		case "delcol":
			err = a.DeleteCollection(ctx, strings.Join(args, " "))
		case "use":
			err = a.UseCollection(ctx, strings.Join(args, " "))

		case "docs", "ls":
			err = a.Docs(ctx)
		case "upload":
			err = a.Upload(ctx, args)
		case "delete", "rm":
			err = a.Delete(ctx, args)

		case "ask":
			err = a.Ask(ctx, strings.Join(args, " "))
		case "history":
			err = a.History(ctx)
		case "newchat":
			err = a.NewChat(ctx)
		case "save":
			err = a.SaveSession(ctx, strings.Join(args, " "))
		case "load":
			err = a.LoadSession(ctx, strings.Join(args, " "))
		case "sessions":
			err = a.Sessions(ctx)
		case "rmsession":
			err = a.RemoveSession(ctx, strings.Join(args, " "))

		case "settings":
			err = a.Settings(ctx, args)
		case "sync":
			err = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err.Error())
		}
	}
}
