package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeClient plays the backend: authenticated calls succeed only with the
// access token in valid, RefreshToken mints refreshed and makes it valid.
type fakeClient struct {
	mu     sync.Mutex
	tokens client.TokenSource

	valid      string
	refreshed  string
	refreshErr error

	loginResp *models.AuthResponse
	loginErr  error
	lastCreds models.Credentials
	lastReg   models.Registration

	me    models.Profile
	meErr error

	entries     []models.Entry
	created     []models.Entry
	updated     map[int64]models.Entry
	lastFields  map[string]any
	lastDate    string
	deleted     []int64
	emotions    []models.EmotionType
	lastPeriod  models.StatsPeriod
	lastPin     models.PinRequest
	lastComment string
	meDeleted   bool

	calls map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(map[string]int)}
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) authorize(ctx context.Context, name string) error {
	f.count(name)
	token, err := f.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == "" || token != f.valid {
		return &client.APIError{Status: 401, Detail: "Given token not valid for any token type"}
	}
	return nil
}

func (f *fakeClient) Login(_ context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	f.count("Login")
	f.lastCreds = creds
	return f.loginResp, f.loginErr
}

func (f *fakeClient) Register(_ context.Context, reg models.Registration) (*models.AuthResponse, error) {
	f.count("Register")
	f.lastReg = reg
	return f.loginResp, f.loginErr
}

func (f *fakeClient) RefreshToken(_ context.Context, _ string) (string, error) {
	f.count("RefreshToken")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.valid = f.refreshed
	return f.refreshed, nil
}

func (f *fakeClient) Me(ctx context.Context) (models.Profile, error) {
	if err := f.authorize(ctx, "Me"); err != nil {
		return nil, err
	}
	return f.me, f.meErr
}

// UpdateMe merges fields into the current profile, like a PATCH does.
func (f *fakeClient) UpdateMe(ctx context.Context, fields map[string]any) (models.Profile, error) {
	if err := f.authorize(ctx, "UpdateMe"); err != nil {
		return nil, err
	}
	f.lastFields = fields
	p := models.Profile{}
	for k, v := range f.me {
		p[k] = v
	}
	for k, v := range fields {
		p[k] = v
	}
	f.me = p
	return p, nil
}

func (f *fakeClient) DeleteMe(ctx context.Context) error {
	if err := f.authorize(ctx, "DeleteMe"); err != nil {
		return err
	}
	f.meDeleted = true
	return nil
}

func (f *fakeClient) SetPin(ctx context.Context, req models.PinRequest) error {
	if err := f.authorize(ctx, "SetPin"); err != nil {
		return err
	}
	f.lastPin = req
	return nil
}

func (f *fakeClient) VerifyPin(ctx context.Context, pin string) error {
	if err := f.authorize(ctx, "VerifyPin"); err != nil {
		return err
	}
	if pin != "1234" {
		return &client.APIError{Status: 400, Detail: "Неверный пин-код"}
	}
	return nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, _ models.PasswordChange) error {
	return f.authorize(ctx, "ChangePassword")
}

func (f *fakeClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	if err := f.authorize(ctx, "ListEntries"); err != nil {
		return nil, err
	}
	return f.entries, nil
}

func (f *fakeClient) LastEntry(ctx context.Context) (*models.Entry, error) {
	if err := f.authorize(ctx, "LastEntry"); err != nil {
		return nil, err
	}
	if len(f.entries) == 0 {
		return nil, nil
	}
	return &f.entries[len(f.entries)-1], nil
}

func (f *fakeClient) EntriesByDate(ctx context.Context, date string) ([]models.Entry, error) {
	if err := f.authorize(ctx, "EntriesByDate"); err != nil {
		return nil, err
	}
	f.lastDate = date
	return f.entries, nil
}

func (f *fakeClient) PublicEntries(ctx context.Context) ([]models.Entry, error) {
	if err := f.authorize(ctx, "PublicEntries"); err != nil {
		return nil, err
	}
	return f.entries, nil
}

func (f *fakeClient) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	if err := f.authorize(ctx, "GetEntry"); err != nil {
		return nil, err
	}
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, &client.APIError{Status: 404, Detail: "Not found."}
}

func (f *fakeClient) CreateEntry(ctx context.Context, e models.Entry) (*models.Entry, error) {
	if err := f.authorize(ctx, "CreateEntry"); err != nil {
		return nil, err
	}
	e.ID = int64(len(f.created) + 1)
	f.created = append(f.created, e)
	return &e, nil
}

func (f *fakeClient) UpdateEntry(ctx context.Context, id int64, e models.Entry) (*models.Entry, error) {
	if err := f.authorize(ctx, "UpdateEntry"); err != nil {
		return nil, err
	}
	if f.updated == nil {
		f.updated = make(map[int64]models.Entry)
	}
	e.ID = id
	f.updated[id] = e
	return &e, nil
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id int64) error {
	if err := f.authorize(ctx, "DeleteEntry"); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) ListEmotions(ctx context.Context) ([]models.Emotion, error) {
	if err := f.authorize(ctx, "ListEmotions"); err != nil {
		return nil, err
	}
	out := make([]models.Emotion, 0, len(f.emotions))
	for _, t := range f.emotions {
		out = append(out, models.Emotion{EmotionType: t})
	}
	return out, nil
}

func (f *fakeClient) AddEmotion(ctx context.Context, t models.EmotionType) (*models.Emotion, error) {
	if err := f.authorize(ctx, "AddEmotion"); err != nil {
		return nil, err
	}
	f.emotions = append(f.emotions, t)
	return &models.Emotion{ID: int64(len(f.emotions)), EmotionType: t}, nil
}

func (f *fakeClient) EmotionStats(ctx context.Context, p models.StatsPeriod) (*models.EmotionStats, error) {
	if err := f.authorize(ctx, "EmotionStats"); err != nil {
		return nil, err
	}
	f.lastPeriod = p
	return &models.EmotionStats{Joy: 1}, nil
}

func (f *fakeClient) ToggleLike(ctx context.Context, _ int64) (*models.LikeState, error) {
	if err := f.authorize(ctx, "ToggleLike"); err != nil {
		return nil, err
	}
	return &models.LikeState{Liked: true, Count: 1}, nil
}

func (f *fakeClient) LikeCount(ctx context.Context, _ int64) (int, error) {
	if err := f.authorize(ctx, "LikeCount"); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeClient) ListComments(ctx context.Context, _ int64) ([]models.Comment, error) {
	if err := f.authorize(ctx, "ListComments"); err != nil {
		return nil, err
	}
	return []models.Comment{{ID: 1, Text: "hi"}}, nil
}

func (f *fakeClient) AddComment(ctx context.Context, _ int64, text string) (*models.Comment, error) {
	if err := f.authorize(ctx, "AddComment"); err != nil {
		return nil, err
	}
	f.lastComment = text
	return &models.Comment{ID: 2, Text: text}, nil
}

var _ client.Client = (*fakeClient)(nil)

type fixture struct {
	client  *fakeClient
	session *session.Manager
	nav     *recordingNavigator
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := newFakeClient()
	nav := &recordingNavigator{}
	store := session.NewScopedStore(metadata.NewMemoryRepository(), metadata.NewMemoryRepository())
	m := session.NewManager(store, fc, session.WithNavigator(nav))
	fc.tokens = m
	return &fixture{client: fc, session: m, nav: nav}
}

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}
