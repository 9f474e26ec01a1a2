package handlers

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const browserSessionName = "iticket_session"

// FlashMessage is a transient notice rendered once on the next page.
type FlashMessage struct {
	Kind string // "success" or "error"
	Text string
}

func init() {
	gob.Register(FlashMessage{})
}

// Flash wraps the cookie session used for transient UI state: flash
// messages and the one-time pay token. Durable auth state lives in the
// session store, not here.
type Flash struct {
	store sessions.Store
}

// NewFlash creates the flash helper over a cookie store.
func NewFlash(store sessions.Store) *Flash {
	return &Flash{store: store}
}

// Success queues a success notice for the next rendered page.
func (f *Flash) Success(w http.ResponseWriter, r *http.Request, text string) {
	f.add(w, r, FlashMessage{Kind: "success", Text: text})
}

// Error queues an error notice for the next rendered page.
func (f *Flash) Error(w http.ResponseWriter, r *http.Request, text string) {
	f.add(w, r, FlashMessage{Kind: "error", Text: text})
}

func (f *Flash) add(w http.ResponseWriter, r *http.Request, msg FlashMessage) {
	sess, err := f.store.Get(r, browserSessionName)
	if err != nil {
		// A stale cookie still yields a usable new session
		sess, _ = f.store.New(r, browserSessionName)
	}
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Pop drains queued notices for rendering.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []FlashMessage {
	sess, err := f.store.Get(r, browserSessionName)
	if err != nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	messages := make([]FlashMessage, 0, len(raw))
	for _, value := range raw {
		if msg, ok := value.(FlashMessage); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// SetPayToken stores the one-time token embedded in the checkout form.
func (f *Flash) SetPayToken(w http.ResponseWriter, r *http.Request, token string) {
	sess, err := f.store.Get(r, browserSessionName)
	if err != nil {
		sess, _ = f.store.New(r, browserSessionName)
	}
	sess.Values["pay_token"] = token
	_ = sess.Save(r, w)
}

// ConsumePayToken checks and invalidates the pay token. A second submit
// of the same form fails the check, which is the double-click guard on
// the Pay button.
func (f *Flash) ConsumePayToken(w http.ResponseWriter, r *http.Request, token string) bool {
	sess, err := f.store.Get(r, browserSessionName)
	if err != nil {
		return false
	}

	stored, ok := sess.Values["pay_token"].(string)
	if !ok || stored == "" || stored != token {
		return false
	}

	delete(sess.Values, "pay_token")
	_ = sess.Save(r, w)
	return true
}
