package client

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
)

// Client is the transport-agnostic contract of the Moodiary backend.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)

	Me(ctx context.Context) (models.Profile, error)
	UpdateMe(ctx context.Context, fields map[string]any) (models.Profile, error)
	DeleteMe(ctx context.Context) error
	SetPin(ctx context.Context, req models.PinRequest) error
	VerifyPin(ctx context.Context, pin string) error
	ChangePassword(ctx context.Context, req models.PasswordChange) error

	ListEntries(ctx context.Context) ([]models.Entry, error)
	LastEntry(ctx context.Context) (*models.Entry, error)
	EntriesByDate(ctx context.Context, date string) ([]models.Entry, error)
	PublicEntries(ctx context.Context) ([]models.Entry, error)
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)
	CreateEntry(ctx context.Context, e models.Entry) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id int64, e models.Entry) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error

	ListEmotions(ctx context.Context) ([]models.Emotion, error)
	AddEmotion(ctx context.Context, t models.EmotionType) (*models.Emotion, error)
	EmotionStats(ctx context.Context, period models.StatsPeriod) (*models.EmotionStats, error)

	ToggleLike(ctx context.Context, entryID int64) (*models.LikeState, error)
	LikeCount(ctx context.Context, entryID int64) (int, error)
	ListComments(ctx context.Context, entryID int64) ([]models.Comment, error)
	AddComment(ctx context.Context, entryID int64, text string) (*models.Comment, error)
}

// TokenSource yields the access token attached to authenticated requests.
// It is consulted on every request, so a token replaced by a refresh is
// picked up by the next call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}
