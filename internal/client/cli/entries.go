package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
)

func (a *App) Entries(ctx context.Context, _ []string) error {
	entries, err := a.diary.Entries(ctx)
	if err != nil {
		return err
	}
	printEntries(a.out, entries, "No entries yet.")
	return nil
}

func (a *App) Last(ctx context.Context, _ []string) error {
	e, err := a.diary.LastEntry(ctx)
	if err != nil {
		return err
	}
	if e == nil {
		fmt.Fprintln(a.out, "No entries yet.")
		return nil
	}
	printEntry(a.out, *e)
	return nil
}

// Day lists the entries of the given date, today by default.
func (a *App) Day(ctx context.Context, args []string) error {
	day := a.now()
	if len(args) > 0 {
		var err error
		if day, err = time.ParseInLocation(time.DateOnly, args[0], time.Local); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
		}
	}

	entries, err := a.diary.EntriesOn(ctx, day)
	if err != nil {
		return err
	}
	printEntries(a.out, entries, "No entries on "+day.Format(time.DateOnly)+".")
	return nil
}

func (a *App) Feed(ctx context.Context, _ []string) error {
	entries, err := a.diary.PublicFeed(ctx)
	if err != nil {
		return err
	}
	printEntries(a.out, entries, "The public feed is empty.")
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	e, err := a.diary.Entry(ctx, id)
	if err != nil {
		return err
	}
	printEntry(a.out, *e)
	return nil
}

// Write prompts for the parts of a new entry and posts it.
func (a *App) Write(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title (empty for \"Untitled\")", a.out)
	if err != nil {
		return err
	}
	hashtags, err := getSimpleText(a.reader, "Hashtags (space or comma separated)", a.out)
	if err != nil {
		return err
	}
	public, err := getConfirmation(a.reader, "Share in the public feed?", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Write your entry", a.out)
	if err != nil {
		return err
	}

	e, err := a.diary.Write(ctx, title, content, hashtags, public)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry #%d saved.\n", e.ID)
	return nil
}

// Edit shows the current values of an entry and asks for new ones. An empty
// answer keeps a field; "-" clears the hashtags.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	cur, err := a.diary.Entry(ctx, id)
	if err != nil {
		return err
	}

	var u models.EntryUpdate

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		u.Title = &title
	}

	hashtags, err := getSimpleText(a.reader, fmt.Sprintf("Hashtags [%s] ('-' clears)", cur.Hashtags), a.out)
	if err != nil {
		return err
	}
	switch hashtags {
	case "":
	case "-":
		u.Hashtags = new(string)
	default:
		u.Hashtags = &hashtags
	}

	public, err := getSimpleText(a.reader, fmt.Sprintf("Public? y/n [%s]", yesNo(cur.IsPublic)), a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(public) {
	case "y", "yes":
		u.IsPublic = boolPtr(true)
	case "n", "no":
		u.IsPublic = boolPtr(false)
	}

	content, err := getMultiline(a.reader, "New text (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		u.Content = &content
	}

	if u.Empty() {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}
	e, err := a.diary.Edit(ctx, id, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry #%d updated.\n", e.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete entry #%d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.diary.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry #%d deleted.\n", id)
	return nil
}
