// Package session holds the credential store shared by the login handshake
// and the sync loop.
//
// A Store is an explicitly owned object handed to every component that
// needs it. Credentials and cookies are written once during the handshake and
// only read afterwards; the sync cursor is the single field replaced
// repeatedly, always wholesale from a server-provided list.
//
// Derived views (the "k_v|k_v" cursor string, the {Count, List} body and the
// request payloads) are computed on read and never stored.
package session
