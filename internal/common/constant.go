// Package common contains the error taxonomy and small shared constants used
// by every layer of the webwx engine.
package common

// SyncSelectorNewMessage is the long-poll selector value that announces
// pending messages on the sync endpoint.
const SyncSelectorNewMessage = 2

// PlaceholderCookie is the empty jar entry the transport prepends to every
// Set-Cookie list it hands to the session store.
const PlaceholderCookie = ""
