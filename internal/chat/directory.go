package chat

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when an operation names a session id that
// does not exist in the directory.
var ErrSessionNotFound = errors.New("session not found")

// Directory holds every session for the current user, most recently created
// first, plus the active session pointer. It is plain single-owner state;
// callers are expected to serialize access.
type Directory struct {
	sessions []*ChatSession
	activeID string
}

func NewDirectory() *Directory {
	return &Directory{}
}

// Restore replaces the directory contents with a previously saved session
// list, auto-selecting the front (most recent) session.
func (d *Directory) Restore(sessions []*ChatSession) {
	d.sessions = sessions
	d.activeID = ""
	if len(sessions) > 0 {
		d.activeID = sessions[0].ID
	}
}

// Create prepends a new empty session and makes it active.
func (d *Directory) Create() *ChatSession {
	s := &ChatSession{
		ID:        NewID(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: time.Now(),
	}
	d.sessions = append([]*ChatSession{s}, d.sessions...)
	d.activeID = s.ID
	return s
}

// Select makes the session with the given id active.
func (d *Directory) Select(id string) error {
	if d.find(id) == -1 {
		return ErrSessionNotFound
	}
	d.activeID = id
	return nil
}

// Delete removes the session with the given id. When the active session is
// removed the active pointer falls back to the front of the remaining list,
// or to none once the directory is empty.
func (d *Directory) Delete(id string) error {
	i := d.find(id)
	if i == -1 {
		return ErrSessionNotFound
	}
	d.sessions = append(d.sessions[:i], d.sessions[i+1:]...)
	if d.activeID == id {
		d.activeID = ""
		if len(d.sessions) > 0 {
			d.activeID = d.sessions[0].ID
		}
	}
	return nil
}

// Update replaces the stored session carrying the same id, re-deriving the
// title from the incoming message list before it is stored.
func (d *Directory) Update(s *ChatSession) error {
	i := d.find(s.ID)
	if i == -1 {
		return ErrSessionNotFound
	}
	s.Title = DeriveTitle(s.Title, s.Messages)
	d.sessions[i] = s
	return nil
}

// Get returns the session with the given id.
func (d *Directory) Get(id string) (*ChatSession, bool) {
	i := d.find(id)
	if i == -1 {
		return nil, false
	}
	return d.sessions[i], true
}

// Sessions returns the session list in display order (newest first).
func (d *Directory) Sessions() []*ChatSession {
	return d.sessions
}

// ActiveID returns the id of the active session, or "" when none is set.
func (d *Directory) ActiveID() string {
	return d.activeID
}

// Len returns the number of sessions held.
func (d *Directory) Len() int {
	return len(d.sessions)
}

// Clear drops every session and the active pointer.
func (d *Directory) Clear() {
	d.sessions = nil
	d.activeID = ""
}

func (d *Directory) find(id string) int {
	for i, s := range d.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}
