package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
)

var errUsage = errors.New("wrong arguments, type 'help' for usage")

func displayName(p models.Profile) string {
	if n := p.Username(); n != "" {
		return n
	}
	if e := p.Email(); e != "" {
		return e
	}
	return "user"
}

// parseID reads the entry id from the first argument.
func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", args[0])
	}
	return id, nil
}

func printEntryLine(w io.Writer, e models.Entry) {
	line := fmt.Sprintf("#%-5d %s  %s", e.ID, e.Date, e.Title)
	if e.Author != nil {
		line += "  by " + e.Author.DisplayName()
	}
	if e.IsPublic {
		line += "  [public]"
	}
	if tags := e.Tags(); len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	fmt.Fprintln(w, line)
}

func printEntries(w io.Writer, entries []models.Entry, empty string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, e := range entries {
		printEntryLine(w, e)
	}
}

func printEntry(w io.Writer, e models.Entry) {
	fmt.Fprintf(w, "#%d %s\n", e.ID, e.Title)
	fmt.Fprintf(w, "Date: %s\n", e.Date)
	if e.Author != nil {
		fmt.Fprintf(w, "Author: %s\n", e.Author.DisplayName())
	}
	if e.Emotion != "" {
		fmt.Fprintf(w, "Mood: %s\n", e.Emotion)
	}
	if tags := e.Tags(); len(tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(tags, " "))
	}
	visibility := "private"
	if e.IsPublic {
		visibility = "public"
	}
	fmt.Fprintf(w, "Visibility: %s, comments: %d\n", visibility, e.CommentsCount)
	fmt.Fprintln(w)
	fmt.Fprintln(w, e.Content)
}

func printProfile(w io.Writer, p models.Profile) {
	fmt.Fprintf(w, "ID: %d\n", p.ID())
	if n := p.Username(); n != "" {
		fmt.Fprintf(w, "Username: %s\n", n)
	}
	if e := p.Email(); e != "" {
		fmt.Fprintf(w, "Email: %s\n", e)
	}
	if n := p.FullName(); n != "" {
		fmt.Fprintf(w, "Name: %s\n", n)
	}
	fmt.Fprintf(w, "PIN: %s\n", onOff(p.HasPin()))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolPtr(b bool) *bool { return &b }

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// percent of n in total, rounded down.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}
