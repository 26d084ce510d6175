// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Output is a message produced through Send or Edit.
type Output struct {
	Text   string
	Markup *tele.ReplyMarkup
}

// Context records everything a handler emits. Methods that are not
// overridden panic through the nil embedded interface.
type Context struct {
	tele.Context

	U tele.Update

	// SendErr and EditErr are returned by the next Send or Edit calls.
	SendErr error
	EditErr error

	mu        sync.Mutex
	store     map[string]any
	sent      []Output
	edited    []Output
	responses []*tele.CallbackResponse
}

var _ tele.Context = (*Context)(nil)

// NewMessage builds a text message update from user chatID in the private chat chatID.
func NewMessage(chatID int64, text string) *Context {
	user := &tele.User{ID: chatID}
	return &Context{U: tele.Update{
		ID: 1,
		Message: &tele.Message{
			ID:     10,
			Sender: user,
			Chat:   &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
			Text:   text,
		},
	}}
}

// NewCallback builds a button press carrying raw callback data on a bot message.
func NewCallback(chatID int64, data string) *Context {
	user := &tele.User{ID: chatID}
	return &Context{U: tele.Update{
		ID: 2,
		Callback: &tele.Callback{
			ID:     "cb",
			Sender: user,
			Data:   data,
			Message: &tele.Message{
				ID:   20,
				Chat: &tele.Chat{ID: chatID, Type: tele.ChatPrivate},
			},
		},
	}}
}

func (c *Context) Update() tele.Update { return c.U }

func (c *Context) Message() *tele.Message {
	switch {
	case c.U.Message != nil:
		return c.U.Message
	case c.U.Callback != nil:
		return c.U.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.U.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.U.Message != nil:
		return c.U.Message.Sender
	case c.U.Callback != nil:
		return c.U.Callback.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Text() string {
	if c.U.Message != nil {
		return c.U.Message.Text
	}
	return ""
}

func (c *Context) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *Context) Send(what any, opts ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, output(what, opts))
	return nil
}

func (c *Context) Edit(what any, opts ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.U.Callback == nil {
		return tele.ErrBadContext
	}
	if c.EditErr != nil {
		return c.EditErr
	}
	c.edited = append(c.edited, output(what, opts))
	return nil
}

func (c *Context) EditOrSend(what any, opts ...any) error {
	err := c.Edit(what, opts...)
	if err == tele.ErrBadContext {
		return c.Send(what, opts...)
	}
	return err
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := &tele.CallbackResponse{}
	if len(resp) > 0 && resp[0] != nil {
		r = resp[0]
	}
	c.responses = append(c.responses, r)
	return nil
}

// Sent returns the messages sent so far.
func (c *Context) Sent() []Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Output(nil), c.sent...)
}

// Edited returns the edits applied so far.
func (c *Context) Edited() []Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Output(nil), c.edited...)
}

// Responses returns the callback answers so far.
func (c *Context) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}

func output(what any, opts []any) Output {
	out := Output{}
	if s, ok := what.(string); ok {
		out.Text = s
	}
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				out.Markup = v.ReplyMarkup
			}
		case *tele.ReplyMarkup:
			out.Markup = v
		}
	}
	return out
}
