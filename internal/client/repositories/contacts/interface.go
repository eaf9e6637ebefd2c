package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/models"
)

var ErrNotFound = errors.New("contact not found")

type Repository interface {
	// Upsert inserts the contact or refreshes its nick name and last seen time.
	// FirstSeen is kept from the first insert.
	Upsert(ctx context.Context, userName, nickName string, seenAt time.Time) error

	GetByUserName(ctx context.Context, userName string) (*models.Contact, error)

	// List returns all contacts ordered by nick name.
	List(ctx context.Context) ([]models.Contact, error)

	// DeleteSeenBefore drops contacts not announced since t.
	DeleteSeenBefore(ctx context.Context, t time.Time) (int64, error)
}
