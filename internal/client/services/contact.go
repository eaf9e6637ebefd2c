package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/events"
	"github.com/dmitrijs2005/webwx/internal/client/models"
	"github.com/dmitrijs2005/webwx/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/webwx/internal/dbx"
	"github.com/dmitrijs2005/webwx/internal/timex"
)

type ContactService interface {
	// Record upserts the contacts in one transaction, stamped with the current time.
	Record(ctx context.Context, cs ...events.Contact) error
	List(ctx context.Context) ([]models.Contact, error)
	// Prune drops contacts not announced within maxAge.
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

type contactService struct {
	db    *sql.DB
	repo  func(dbx.DBTX) contacts.Repository
	clock timex.Clock
}

func NewContactService(db *sql.DB, clock timex.Clock) ContactService {
	if clock == nil {
		clock = timex.SystemClock
	}
	return &contactService{
		db:    db,
		repo:  func(tx dbx.DBTX) contacts.Repository { return contacts.NewSQLiteRepository(tx) },
		clock: clock,
	}
}

func (s *contactService) Record(ctx context.Context, cs ...events.Contact) error {
	if len(cs) == 0 {
		return nil
	}
	now := s.clock()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for _, c := range cs {
			if err := repo.Upsert(ctx, c.UserName, c.NickName, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record contacts: %w", err)
	}
	return nil
}

func (s *contactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.repo(s.db).List(ctx)
}

func (s *contactService) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.repo(s.db).DeleteSeenBefore(ctx, s.clock().Add(-maxAge))
}
