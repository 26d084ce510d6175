package dialog

import "github.com/m3rciful/fridgebot/fridge/presenter"

// EventKind classifies inbound events.
type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventButton
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventButton:
		return "button"
	case EventText:
		return "text"
	}
	return "unknown"
}

// Command is a typed slash command without payload.
type Command string

const (
	CommandStart Command = "start"
	CommandStop  Command = "stop"
)

// Event is one inbound user action.
type Event struct {
	Kind    EventKind
	Command Command
	Token   presenter.Token
	Text    string
}

// CommandEvent builds an event for a typed command.
func CommandEvent(c Command) Event { return Event{Kind: EventCommand, Command: c} }

// ButtonEvent builds an event for a pressed button.
func ButtonEvent(t presenter.Token) Event { return Event{Kind: EventButton, Token: t} }

// TextEvent builds an event for a free-text message.
func TextEvent(text string) Event { return Event{Kind: EventText, Text: text} }

// Delivery selects how the transport emits a message.
type Delivery int

const (
	// DeliverSend posts a new message.
	DeliverSend Delivery = iota + 1
	// DeliverEdit replaces the message that carried the pressed button.
	DeliverEdit
	// DeliverRespond answers on the channel the event arrived on and falls back to the other one.
	DeliverRespond
)

func (d Delivery) String() string {
	switch d {
	case DeliverSend:
		return "send"
	case DeliverEdit:
		return "edit"
	case DeliverRespond:
		return "respond"
	}
	return "unknown"
}

// Message is one outgoing message.
type Message struct {
	Delivery Delivery
	View     presenter.View
}

// Response is everything the transport has to emit for one event.
type Response struct {
	Messages []Message
	// Notice is a short acknowledgement shown as the button press answer.
	Notice string
}

func send(views ...presenter.View) Response {
	msgs := make([]Message, 0, len(views))
	for _, v := range views {
		msgs = append(msgs, Message{Delivery: DeliverSend, View: v})
	}
	return Response{Messages: msgs}
}

func edit(v presenter.View) Response {
	return Response{Messages: []Message{{Delivery: DeliverEdit, View: v}}}
}

func respond(v presenter.View) Response {
	return Response{Messages: []Message{{Delivery: DeliverRespond, View: v}}}
}
