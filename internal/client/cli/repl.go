package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodiary/internal/common"
)

// printFn and printlnFn are test seams for REPL output.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the command surface the REPL needs. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error

	Entries(ctx context.Context, args []string) error
	Last(ctx context.Context, args []string) error
	Day(ctx context.Context, args []string) error
	Feed(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Write(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Mood(ctx context.Context, args []string) error
	Moods(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error

	Like(ctx context.Context, args []string) error
	Comments(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error

	EditProfile(ctx context.Context, args []string) error
	SetPin(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context, args []string) error
}

// audience tells which REPL state offers a command.
type audience int

const (
	guests audience = iota
	members
	everyone
)

func (au audience) includes(loggedIn bool) bool {
	switch au {
	case guests:
		return !loggedIn
	case members:
		return loggedIn
	}
	return true
}

type command struct {
	name     string
	usage    string
	audience audience
	handler  func(ctx context.Context, args []string) error
}

func commands(a execIface) []command {
	return []command{
		{"register", "create an account", guests, a.Register},
		{"login", "sign in", guests, a.Login},
		{"status", "show session state", everyone, a.Status},

		{"whoami", "show your profile", members, a.WhoAmI},
		{"entries", "list your entries", members, a.Entries},
		{"last", "show your latest entry", members, a.Last},
		{"day", "entries of a day: day [YYYY-MM-DD]", members, a.Day},
		{"feed", "public entries", members, a.Feed},
		{"show", "show an entry: show <id>", members, a.Show},
		{"write", "write a new entry", members, a.Write},
		{"edit", "edit an entry: edit <id>", members, a.Edit},
		{"delete", "delete an entry: delete <id>", members, a.Delete},
		{"mood", "record today's mood: mood joy|sadness|neutral", members, a.Mood},
		{"moods", "list recorded moods", members, a.Moods},
		{"stats", "mood statistics: stats [day|week|month|current_month|last_month|all_time]", members, a.Stats},
		{"like", "toggle like: like <id>", members, a.Like},
		{"comments", "list comments: comments <id>", members, a.Comments},
		{"comment", "add a comment: comment <id> <text>", members, a.Comment},
		{"profile", "change your username and name", members, a.EditProfile},
		{"setpin", "set or change your PIN", members, a.SetPin},
		{"passwd", "change your password", members, a.Passwd},
		{"deleteaccount", "delete your account", members, a.DeleteAccount},
		{"logout", "sign out", members, a.Logout},
	}
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Commands that need a session are only offered while logged in. The loop
// exits on EOF, on "exit" / "quit", or when ctx is done.
//
// Handler errors are printed; a session-expired error is not, the navigator
// has already told the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	cmds := commands(a)

	for ctx.Err() == nil {
		printFn(fmt.Sprintf("moodiary%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(cmds, a.isLoggedIn())
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(cmds, name, a.isLoggedIn())
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}

		if err := cmd.handler(ctx, args); err != nil && !errors.Is(err, common.ErrSessionExpired) {
			printlnFn("Error:", err)
		}
	}
}

func lookup(cmds []command, name string, loggedIn bool) (command, bool) {
	for _, c := range cmds {
		if c.name != name {
			continue
		}
		return c, c.audience.includes(loggedIn)
	}
	return command{}, false
}

func printHelp(cmds []command, loggedIn bool) {
	printlnFn("Available commands:")
	for _, c := range cmds {
		if !c.audience.includes(loggedIn) {
			continue
		}
		printlnFn(fmt.Sprintf("  %-14s %s", c.name, c.usage))
	}
	printlnFn(fmt.Sprintf("  %-14s %s", "help", "show this list"))
	printlnFn(fmt.Sprintf("  %-14s %s", "exit", "leave the program"))
}
