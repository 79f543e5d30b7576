package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (a *App) Like(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	s, err := a.diary.ToggleLike(ctx, id)
	if err != nil {
		return err
	}
	verb := "Unliked"
	if s.Liked {
		verb = "Liked"
	}
	fmt.Fprintf(a.out, "%s entry #%d (%d likes).\n", verb, id, s.Count)
	return nil
}

func (a *App) Comments(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	comments, err := a.diary.Comments(ctx, id)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Fprintln(a.out, "No comments yet.")
		return nil
	}
	for _, c := range comments {
		author := "anonymous"
		if c.Author != nil {
			author = c.Author.DisplayName()
		}
		fmt.Fprintf(a.out, "%s  %s: %s\n", c.CreatedAt.Local().Format(time.DateTime), author, c.Text)
	}
	return nil
}

// Comment posts the rest of the line as a comment on an entry.
func (a *App) Comment(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errUsage
	}
	if _, err := a.diary.Comment(ctx, id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment added to entry #%d.\n", id)
	return nil
}
