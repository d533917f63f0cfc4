package services

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/testutil"
)

type recordedEvent struct {
	Type string
	Data interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Type: eventType, Data: data})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMailer struct {
	mu       sync.Mutex
	pending  []string
	approved []string
}

func (m *fakeMailer) SendRegistrationPendingEmail(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, toEmail)
	return nil
}

func (m *fakeMailer) SendAccountApprovedEmail(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approved = append(m.approved, toEmail)
	return nil
}

type fixture struct {
	db       *db.DB
	repos    *repositories.Repositories
	jwt      *auth.JWTService
	mailer   *fakeMailer
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewDB(t)
	return &fixture{
		db:    database,
		repos: repositories.NewRepositories(database),
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			TokenIssuer:     "alumnihub-test",
		}),
		mailer:   &fakeMailer{},
		notifier: &recordingNotifier{},
	}
}

func (f *fixture) services(t *testing.T) *Services {
	t.Helper()
	return NewServices(Dependencies{
		Repos:    f.repos,
		JWT:      f.jwt,
		Mailer:   f.mailer,
		Notifier: f.notifier,
		Storage:  nil,
		Logger:   zerolog.Nop(),
	})
}
