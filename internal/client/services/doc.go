// Package services holds the host-side use cases over the local store:
// sealing the session snapshot and recording announced contacts.
package services
