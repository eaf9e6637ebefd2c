// Package models defines client-side records persisted in the local store.
package models

import "time"

// Contact is a direct-message peer as recorded locally.
type Contact struct {
	// UserName is the server-assigned id; it changes between logins.
	UserName string
	NickName string

	FirstSeen time.Time
	LastSeen  time.Time
}
