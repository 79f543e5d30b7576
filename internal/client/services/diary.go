package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
)

var (
	ErrEmptyText     = errors.New("text must not be empty")
	ErrNothingToEdit = errors.New("nothing to change")
)

// DiaryService covers entries, emotions, likes and comments.
type DiaryService interface {
	Entries(ctx context.Context) ([]models.Entry, error)
	LastEntry(ctx context.Context) (*models.Entry, error)
	EntriesOn(ctx context.Context, day time.Time) ([]models.Entry, error)
	PublicFeed(ctx context.Context) ([]models.Entry, error)
	Entry(ctx context.Context, id int64) (*models.Entry, error)
	Write(ctx context.Context, title, content, hashtags string, public bool) (*models.Entry, error)
	Edit(ctx context.Context, id int64, u models.EntryUpdate) (*models.Entry, error)
	Delete(ctx context.Context, id int64) error

	Emotions(ctx context.Context) ([]models.Emotion, error)
	RecordEmotion(ctx context.Context, emotion string) (*models.Emotion, error)
	Stats(ctx context.Context, period string) (*models.EmotionStats, error)

	ToggleLike(ctx context.Context, entryID int64) (*models.LikeState, error)
	Likes(ctx context.Context, entryID int64) (int, error)
	Comments(ctx context.Context, entryID int64) ([]models.Comment, error)
	Comment(ctx context.Context, entryID int64, text string) (*models.Comment, error)
}

type diaryService struct {
	client  client.Client
	session *session.Manager
	now     func() time.Time
}

func NewDiaryService(c client.Client, m *session.Manager) DiaryService {
	return &diaryService{client: c, session: m, now: time.Now}
}

func call[T any](ctx context.Context, s *diaryService, fn func(context.Context) (T, error)) (T, error) {
	return session.ExecuteWithRefresh(ctx, s.session, fn, nil)
}

func (s *diaryService) Entries(ctx context.Context) ([]models.Entry, error) {
	return call(ctx, s, s.client.ListEntries)
}

func (s *diaryService) LastEntry(ctx context.Context) (*models.Entry, error) {
	return call(ctx, s, s.client.LastEntry)
}

func (s *diaryService) EntriesOn(ctx context.Context, day time.Time) ([]models.Entry, error) {
	date := day.Format(time.DateOnly)
	return call(ctx, s, func(ctx context.Context) ([]models.Entry, error) {
		return s.client.EntriesByDate(ctx, date)
	})
}

func (s *diaryService) PublicFeed(ctx context.Context) ([]models.Entry, error) {
	return call(ctx, s, s.client.PublicEntries)
}

func (s *diaryService) Entry(ctx context.Context, id int64) (*models.Entry, error) {
	return call(ctx, s, func(ctx context.Context) (*models.Entry, error) {
		return s.client.GetEntry(ctx, id)
	})
}

func (s *diaryService) Write(ctx context.Context, title, content, hashtags string, public bool) (*models.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyText
	}
	e := models.NewEntry(title, content, hashtags, public, s.now())
	return call(ctx, s, func(ctx context.Context) (*models.Entry, error) {
		return s.client.CreateEntry(ctx, e)
	})
}

// Edit loads entry id, applies u and writes the whole entry back.
func (s *diaryService) Edit(ctx context.Context, id int64, u models.EntryUpdate) (*models.Entry, error) {
	if u.Empty() {
		return nil, ErrNothingToEdit
	}
	if u.Content != nil && strings.TrimSpace(*u.Content) == "" {
		return nil, ErrEmptyText
	}

	cur, err := s.Entry(ctx, id)
	if err != nil {
		return nil, err
	}
	e := u.Apply(*cur)
	return call(ctx, s, func(ctx context.Context) (*models.Entry, error) {
		return s.client.UpdateEntry(ctx, id, e)
	})
}

func (s *diaryService) Delete(ctx context.Context, id int64) error {
	return s.session.Execute(ctx, func(ctx context.Context) error {
		return s.client.DeleteEntry(ctx, id)
	}, nil)
}

func (s *diaryService) Emotions(ctx context.Context) ([]models.Emotion, error) {
	return call(ctx, s, s.client.ListEmotions)
}

func (s *diaryService) RecordEmotion(ctx context.Context, emotion string) (*models.Emotion, error) {
	t, err := models.ParseEmotionType(strings.ToLower(strings.TrimSpace(emotion)))
	if err != nil {
		return nil, err
	}
	return call(ctx, s, func(ctx context.Context) (*models.Emotion, error) {
		return s.client.AddEmotion(ctx, t)
	})
}

func (s *diaryService) Stats(ctx context.Context, period string) (*models.EmotionStats, error) {
	p, err := models.ParseStatsPeriod(period)
	if err != nil {
		return nil, err
	}
	return call(ctx, s, func(ctx context.Context) (*models.EmotionStats, error) {
		return s.client.EmotionStats(ctx, p)
	})
}

func (s *diaryService) ToggleLike(ctx context.Context, entryID int64) (*models.LikeState, error) {
	return call(ctx, s, func(ctx context.Context) (*models.LikeState, error) {
		return s.client.ToggleLike(ctx, entryID)
	})
}

func (s *diaryService) Likes(ctx context.Context, entryID int64) (int, error) {
	return call(ctx, s, func(ctx context.Context) (int, error) {
		return s.client.LikeCount(ctx, entryID)
	})
}

func (s *diaryService) Comments(ctx context.Context, entryID int64) ([]models.Comment, error) {
	return call(ctx, s, func(ctx context.Context) ([]models.Comment, error) {
		return s.client.ListComments(ctx, entryID)
	})
}

func (s *diaryService) Comment(ctx context.Context, entryID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	return call(ctx, s, func(ctx context.Context) (*models.Comment, error) {
		return s.client.AddComment(ctx, entryID, text)
	})
}
