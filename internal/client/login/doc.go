// Package login drives the QR-code handshake that turns a scanned code into
// session credentials.
//
// The steps run strictly in order and never go back:
//
//	RequestUUID -> RenderQR -> PollPending -> PollConfirmed ->
//	FetchLoginPage -> InitSession -> StatusNotify
//
// Any failure aborts the handshake; the caller decides whether to start over.
package login
