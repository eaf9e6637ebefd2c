package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/webwx/internal/client/models"
	"github.com/dmitrijs2005/webwx/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, userName, nickName string, seenAt time.Time) error {
	query := `INSERT INTO contacts (user_name, nick_name, first_seen, last_seen)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_name) DO UPDATE SET nick_name = excluded.nick_name,
				last_seen = excluded.last_seen
	`
	ms := seenAt.UnixMilli()
	if _, err := r.db.ExecContext(ctx, query, userName, nickName, ms, ms); err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByUserName(ctx context.Context, userName string) (*models.Contact, error) {
	query := `SELECT user_name, nick_name, first_seen, last_seen FROM contacts WHERE user_name = ?`
	c, err := scanContact(r.db.QueryRowContext(ctx, query, userName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT user_name, nick_name, first_seen, last_seen FROM contacts ORDER BY nick_name, user_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteSeenBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE last_seen < ?`, t.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*models.Contact, error) {
	var c models.Contact
	var first, last int64
	if err := s.Scan(&c.UserName, &c.NickName, &first, &last); err != nil {
		return nil, err
	}
	c.FirstSeen = time.UnixMilli(first)
	c.LastSeen = time.UnixMilli(last)
	return &c, nil
}
