// Package cli is the host side of webwx.
//
// App polls the engine's event queue on a fixed interval, taking at most one
// event per tick. It prints the QR image location, records announced
// contacts in the local store and reports how the session ended. Run returns
// once the engine has stopped and every queued event has been handled.
package cli
