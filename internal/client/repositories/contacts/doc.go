// Package contacts persists the direct-message contacts announced during
// login so the host can list them without a live session.
package contacts
