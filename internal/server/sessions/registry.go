// Package sessions keeps the table of logged-in users and the tokens issued
// to them. Sessions live until logout; nothing expires them.
package sessions

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/logging"
	"github.com/Jan540/account-manager/internal/server/events"
	"github.com/Jan540/account-manager/internal/server/models"
)

// UserLookup resolves a login name to a user.
type UserLookup interface {
	UserByLogin(login string) (models.User, bool)
}

// TokenIssuer produces a fresh, globally unique token for a user.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
}

// Registry records sessions in login order. A user may hold several
// sessions at once.
type Registry struct {
	users   UserLookup
	issuer  TokenIssuer
	emitter events.Emitter
	logger  logging.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions []models.Session
}

func NewRegistry(users UserLookup, issuer TokenIssuer, em events.Emitter, l logging.Logger) *Registry {
	if em == nil {
		em = events.Discard{}
	}
	return &Registry{
		users:   users,
		issuer:  issuer,
		emitter: em,
		logger:  l.With("module", "sessions"),
		now:     time.Now,
	}
}

// Login checks the presented password hash and opens a session. Unknown
// users and hash mismatches both yield ErrUnauthorized.
func (r *Registry) Login(ctx context.Context, login, hash string) (string, error) {
	user, ok := r.users.UserByLogin(login)
	if !ok || subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(hash)) != 1 {
		return "", common.ErrUnauthorized
	}

	token, err := r.issuer.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	r.mu.Lock()
	r.sessions = append(r.sessions, models.Session{User: user, Token: token, CreatedAt: r.now()})
	r.emitter.Emit(ctx, events.Event{Kind: events.KindLogin, UserID: user.ID, Login: user.Login, At: r.now()})
	r.mu.Unlock()

	return token, nil
}

// Logout closes the oldest session of the named user. The presented token
// is not compared with the issued one; a mismatch is only logged.
func (r *Registry) Logout(ctx context.Context, login, token string) error {
	r.mu.Lock()
	idx := -1
	for i, s := range r.sessions {
		if s.User.Login == login {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return common.ErrNoSession
	}
	s := r.sessions[idx]
	r.sessions = append(r.sessions[:idx:idx], r.sessions[idx+1:]...)
	r.emitter.Emit(ctx, events.Event{Kind: events.KindLogout, UserID: s.User.ID, Login: login, At: r.now()})
	r.mu.Unlock()

	if s.Token != token {
		r.logger.Warn(ctx, "logout token mismatch ignored", "login", login)
	}
	return nil
}

// List returns the current sessions ordered by login, oldest first within
// a login.
func (r *Registry) List() []models.Session {
	r.mu.Lock()
	out := append([]models.Session(nil), r.sessions...)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].User.Login < out[j].User.Login })
	return out
}
