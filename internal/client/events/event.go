package events

import (
	"fmt"

	"github.com/google/uuid"
)

// Event is a host-bound notification. The set is closed.
type Event interface {
	event()
}

// ShowLoginImage asks the host to display the QR image written at Path.
type ShowLoginImage struct {
	Path string
}

// Contact is a direct-message peer from the initial contact list.
type Contact struct {
	UserName string
	NickName string
}

type AddContact struct {
	Contact Contact
}

// SessionEnded is the normal end of a session: the server returned a
// non-zero retcode from the long-poll endpoint.
type SessionEnded struct {
	Retcode  int
	Selector int
}

// EngineStopped reports a fatal error; the engine emits nothing after it.
type EngineStopped struct {
	Err error
}

func (ShowLoginImage) event() {}
func (AddContact) event()     {}
func (SessionEnded) event()   {}
func (EngineStopped) event()  {}

func (e ShowLoginImage) String() string { return fmt.Sprintf("ShowLoginImage(%s)", e.Path) }
func (e AddContact) String() string {
	return fmt.Sprintf("AddContact(%s, %s)", e.Contact.UserName, e.Contact.NickName)
}
func (e SessionEnded) String() string {
	return fmt.Sprintf("SessionEnded(retcode=%d, selector=%d)", e.Retcode, e.Selector)
}
func (e EngineStopped) String() string { return fmt.Sprintf("EngineStopped(%v)", e.Err) }

// Command is an engine-bound request from the host.
type Command interface {
	command()
}

// SendMessage is reserved for an outbound message flow; nothing consumes it
// yet. LocalID correlates the eventual server acknowledgement.
type SendMessage struct {
	LocalID    uuid.UUID
	ToUserName string
	Content    string
}

func (SendMessage) command() {}

func NewSendMessage(to, content string) SendMessage {
	return SendMessage{LocalID: uuid.New(), ToUserName: to, Content: content}
}
