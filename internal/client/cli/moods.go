package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Mood(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	e, err := a.diary.RecordEmotion(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mood recorded: %s\n", e.EmotionType)
	return nil
}

func (a *App) Moods(ctx context.Context, _ []string) error {
	emotions, err := a.diary.Emotions(ctx)
	if err != nil {
		return err
	}
	if len(emotions) == 0 {
		fmt.Fprintln(a.out, "No moods recorded yet.")
		return nil
	}
	for _, e := range emotions {
		fmt.Fprintf(a.out, "%s  %s\n", e.Timestamp.Local().Format(time.DateTime), e.EmotionType)
	}
	return nil
}

// Stats prints the mood distribution of a period, the last week by default.
func (a *App) Stats(ctx context.Context, args []string) error {
	var period string
	if len(args) > 0 {
		period = args[0]
	}
	s, err := a.diary.Stats(ctx, period)
	if err != nil {
		return err
	}

	total := s.Total()
	if s.Month != nil {
		fmt.Fprintf(a.out, "Month: %s\n", *s.Month)
	}
	fmt.Fprintf(a.out, "joy      %3d  %3d%%\n", s.Joy, percent(s.Joy, total))
	fmt.Fprintf(a.out, "sadness  %3d  %3d%%\n", s.Sadness, percent(s.Sadness, total))
	fmt.Fprintf(a.out, "neutral  %3d  %3d%%\n", s.Neutral, percent(s.Neutral, total))
	fmt.Fprintf(a.out, "total    %3d\n", total)
	return nil
}
