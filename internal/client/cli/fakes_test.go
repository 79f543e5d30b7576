package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodiary/internal/client/services"
	"github.com/dmitrijs2005/moodiary/internal/client/session"
	"github.com/dmitrijs2005/moodiary/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)

// fakeAuth implements the parts of services.AuthService the commands use;
// anything else panics through the nil embedded interface.
type fakeAuth struct {
	services.AuthService

	login      *services.LoginResult
	loginErr   error
	validPin   string
	pinErr     error
	pinCalls   []string
	logouts    int
	profile    models.Profile
	setPinArgs []string
	deleted    bool
	fields     map[string]any
}

func (f *fakeAuth) Login(context.Context, string, string) (*services.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, reg models.Registration) (*services.LoginResult, error) {
	return &services.LoginResult{Profile: models.Profile{"username": reg.Username}}, nil
}

func (f *fakeAuth) VerifyPin(_ context.Context, pin string) error {
	f.pinCalls = append(f.pinCalls, pin)
	if f.pinErr != nil {
		return f.pinErr
	}
	if pin != f.validPin {
		return services.ErrInvalidPin
	}
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return nil
}

func (f *fakeAuth) Profile(context.Context, bool) (models.Profile, error) {
	return f.profile, nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, fields map[string]any) (models.Profile, error) {
	f.fields = fields
	p := models.Profile{}
	for k, v := range f.profile {
		p[k] = v
	}
	for k, v := range fields {
		p[k] = v
	}
	return p, nil
}

func (f *fakeAuth) SetPin(_ context.Context, pin, confirm, oldPin string) error {
	f.setPinArgs = []string{pin, confirm, oldPin}
	return nil
}

func (f *fakeAuth) DeleteAccount(context.Context) error {
	f.deleted = true
	return nil
}

type fakeDiary struct {
	services.DiaryService

	day      time.Time
	written  []string
	public   bool
	deleted  []int64
	comment  string
	stats    models.EmotionStats
	entries  []models.Entry
	entryErr error
	edits    map[int64]models.EntryUpdate
}

func (f *fakeDiary) Entries(context.Context) ([]models.Entry, error) {
	return f.entries, nil
}

func (f *fakeDiary) EntriesOn(_ context.Context, day time.Time) ([]models.Entry, error) {
	f.day = day
	return nil, nil
}

func (f *fakeDiary) LastEntry(context.Context) (*models.Entry, error) {
	if len(f.entries) == 0 {
		return nil, f.entryErr
	}
	return &f.entries[len(f.entries)-1], f.entryErr
}

func (f *fakeDiary) Write(_ context.Context, title, content, hashtags string, public bool) (*models.Entry, error) {
	f.written = []string{title, content, hashtags}
	f.public = public
	return &models.Entry{ID: 42, Title: title}, nil
}

func (f *fakeDiary) Entry(_ context.Context, id int64) (*models.Entry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			return &f.entries[i], nil
		}
	}
	return nil, f.entryErr
}

func (f *fakeDiary) Edit(_ context.Context, id int64, u models.EntryUpdate) (*models.Entry, error) {
	if f.edits == nil {
		f.edits = make(map[int64]models.EntryUpdate)
	}
	f.edits[id] = u
	return &models.Entry{ID: id}, nil
}

func (f *fakeDiary) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDiary) Comment(_ context.Context, _ int64, text string) (*models.Comment, error) {
	f.comment = text
	return &models.Comment{Text: text}, nil
}

func (f *fakeDiary) Stats(context.Context, string) (*models.EmotionStats, error) {
	return &f.stats, nil
}

func (f *fakeDiary) ToggleLike(_ context.Context, id int64) (*models.LikeState, error) {
	return &models.LikeState{Liked: true, Count: 3}, nil
}

// newTestApp builds an App over in-memory session storage. input feeds the
// line based prompts.
func newTestApp(t *testing.T, input string) (*App, *fakeAuth, *fakeDiary, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	auth := &fakeAuth{}
	diary := &fakeDiary{}
	a := &App{
		log:    logging.Nop(),
		auth:   auth,
		diary:  diary,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
		now:    func() time.Time { return testDay },
	}
	store := session.NewScopedStore(metadata.NewMemoryRepository(), metadata.NewMemoryRepository())
	a.session = session.NewManager(store, nil, session.WithNavigator(a))
	return a, auth, diary, &out
}

// stubSecrets makes the no-echo prompts return the given values in order.
func stubSecrets(t *testing.T, values ...string) {
	t.Helper()
	old := getSecret
	t.Cleanup(func() { getSecret = old })

	getSecret = func(_ io.Writer, _ string) ([]byte, error) {
		if len(values) == 0 {
			return nil, io.EOF
		}
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}
