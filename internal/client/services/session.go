package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/webwx/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/webwx/internal/client/session"
	"github.com/dmitrijs2005/webwx/internal/cryptox"
	"github.com/dmitrijs2005/webwx/internal/timex"
)

// SessionKey is the metadata key holding the sealed snapshot.
const SessionKey = "session"

var ErrNoPassphrase = errors.New("session passphrase is empty")

// SessionService persists the credential store between runs. It satisfies
// engine.Vault.
type SessionService interface {
	// Load returns nil, nil when no session is stored.
	Load(ctx context.Context) (*session.Snapshot, error)
	Save(ctx context.Context, snap session.Snapshot) error
	Clear(ctx context.Context) error
}

type sessionService struct {
	repo   metadata.Repository
	sealer *cryptox.Sealer
	clock  timex.Clock
}

// NewSessionService derives the sealing key at most once per process: on the
// first Save, or from the stored snapshot's salt on Load.
func NewSessionService(repo metadata.Repository, passphrase string, clock timex.Clock) (SessionService, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	return newSessionService(repo, cryptox.NewSealer([]byte(passphrase), nil), clock), nil
}

func newSessionService(repo metadata.Repository, sealer *cryptox.Sealer, clock timex.Clock) *sessionService {
	if clock == nil {
		clock = timex.SystemClock
	}
	return &sessionService{repo: repo, sealer: sealer, clock: clock}
}

func (s *sessionService) Load(ctx context.Context) (*session.Snapshot, error) {
	it, err := s.repo.Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, nil
	}

	var snap session.Snapshot
	if err := s.sealer.Open(it.Value, &snap); err != nil {
		return nil, fmt.Errorf("open stored session: %w", err)
	}
	return &snap, nil
}

func (s *sessionService) Save(ctx context.Context, snap session.Snapshot) error {
	sealed, err := s.sealer.Seal(snap)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	return s.repo.Set(ctx, SessionKey, sealed, s.clock())
}

func (s *sessionService) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, SessionKey)
}
