package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/abys-ai/abys-go/internal/chat"
	"github.com/abys-ai/abys-go/internal/logger"
)

// Per-session turn states.
type TurnState stateless.State

var (
	StateIdle             TurnState = "Idle"
	StateAwaitingResponse TurnState = "AwaitingResponse"
)

// Per-session turn triggers.
type TurnTrigger stateless.Trigger

var (
	TriggerSend      TurnTrigger = "Send"
	TriggerResponded TurnTrigger = "Responded"
)

var (
	// ErrEmptyMessage is returned when a turn is submitted with no content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSessionBusy is returned when a turn is already awaiting its
	// response on the same session.
	ErrSessionBusy = errors.New("a response is already pending for this session")
)

// Responder produces the assistant text for one turn. It always succeeds;
// backend failures arrive as displayable text.
type Responder interface {
	Respond(ctx context.Context, prompt string, history []chat.Message) string
}

// Persister holds the durable copy of the user and session directory.
type Persister interface {
	Save(user *chat.User, sessions []*chat.ChatSession)
	Clear()
}

// historyWindow is how many of the most recent prior messages are handed to
// the responder for context. The responder applies its own tighter cut on
// top of this window.
const historyWindow = 10

// Agent orchestrates conversation turns: it owns the signed-in user, the
// session directory, one turn state machine per session, and persistence of
// every state change. Sessions are independent; the per-session machine is
// the only concurrency guard, so turns on different sessions may overlap.
type Agent struct {
	mu        sync.Mutex
	user      *chat.User
	directory *chat.Directory
	responder Responder
	persist   Persister
	turns     map[string]*stateless.StateMachine
}

// New creates an agent with an empty directory and no user.
func New(responder Responder, persist Persister) *Agent {
	return &Agent{
		directory: chat.NewDirectory(),
		responder: responder,
		persist:   persist,
		turns:     make(map[string]*stateless.StateMachine),
	}
}

// Restore installs previously saved state at startup. Without a saved user
// the directory stays empty and storage is cleared. Turn machines are not
// restored: an in-flight generation does not survive a restart, so every
// restored session starts out idle.
func (a *Agent) Restore(user *chat.User, sessions []*chat.ChatSession) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = user
	if user == nil {
		a.directory.Clear()
		a.persist.Clear()
		return
	}
	a.directory.Restore(sessions)
}

// Login installs the signed-in user and persists.
func (a *Agent) Login(user *chat.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = user
	a.save()
}

// Logout tears everything down: user, sessions, turn machines, and the
// stored blobs.
func (a *Agent) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	a.directory.Clear()
	a.turns = make(map[string]*stateless.StateMachine)
	a.persist.Clear()
}

// User returns the signed-in user, or nil.
func (a *Agent) User() *chat.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// Sessions returns a snapshot of the directory listing, newest first. The
// sessions are deep copies: callers encode and inspect them outside the
// agent lock while in-flight turns keep mutating the originals.
func (a *Agent) Sessions() []*chat.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*chat.ChatSession, len(a.directory.Sessions()))
	for i, s := range a.directory.Sessions() {
		out[i] = s.Clone()
	}
	return out
}

// ActiveID returns the active session id, or "" when none is set.
func (a *Agent) ActiveID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.directory.ActiveID()
}

// NewSession creates an empty session at the front of the directory and
// makes it active. The returned value is a snapshot, like Sessions.
func (a *Agent) NewSession() *chat.ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.directory.Create()
	a.save()
	return s.Clone()
}

// SelectSession makes the given session active.
func (a *Agent) SelectSession(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.directory.Select(id); err != nil {
		return err
	}
	a.save()
	return nil
}

// DeleteSession removes the given session along with its turn machine. A
// turn still in flight for it will find the session gone and discard its
// response.
func (a *Agent) DeleteSession(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.directory.Delete(id); err != nil {
		return err
	}
	delete(a.turns, id)
	a.save()
	return nil
}

// SendTurn runs one complete conversation turn: append the user message and
// persist, call the responder with a bounded history window, append the
// resulting assistant message and persist again. The response is routed by
// the session id captured here, so a turn completes against its original
// session even when another session has been selected meanwhile, and is
// discarded when that session was deleted mid-flight.
func (a *Agent) SendTurn(ctx context.Context, sessionID, input string) (*chat.Message, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyMessage
	}

	a.mu.Lock()
	sess, ok := a.directory.Get(sessionID)
	if !ok {
		a.mu.Unlock()
		return nil, chat.ErrSessionNotFound
	}
	fsm := a.turnMachine(sessionID)
	if ok, _ := fsm.CanFire(TriggerSend); !ok {
		a.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if err := fsm.Fire(TriggerSend); err != nil {
		a.mu.Unlock()
		return nil, ErrSessionBusy
	}

	// History is built from the messages prior to the user message appended
	// below.
	history := historySlice(sess.Messages)
	sess.Messages = append(sess.Messages, chat.NewMessage(chat.RoleUser, input))
	if err := a.directory.Update(sess); err != nil {
		logger.L.Warn("session update failed", "session", sessionID, "error", err)
	}
	a.save()
	a.mu.Unlock()

	// The single suspension point of a turn. One attempt, no timeout, no
	// cancellation.
	reply := a.responder.Respond(ctx, input, history)

	a.mu.Lock()
	defer a.mu.Unlock()
	if fsm, ok := a.turns[sessionID]; ok {
		if err := fsm.Fire(TriggerResponded); err != nil {
			logger.L.Warn("turn machine fire failed", "session", sessionID, "error", err)
		}
	}
	sess, ok = a.directory.Get(sessionID)
	if !ok {
		logger.L.Warn("discarding response for deleted session", "session", sessionID)
		return nil, chat.ErrSessionNotFound
	}
	msg := chat.NewMessage(chat.RoleAssistant, reply)
	sess.Messages = append(sess.Messages, msg)
	if err := a.directory.Update(sess); err != nil {
		logger.L.Warn("session update failed", "session", sessionID, "error", err)
	}
	a.save()
	return &msg, nil
}

// turnMachine lazily builds the Idle/AwaitingResponse machine for a session.
// Callers must hold a.mu.
func (a *Agent) turnMachine(id string) *stateless.StateMachine {
	fsm, ok := a.turns[id]
	if !ok {
		fsm = stateless.NewStateMachine(StateIdle)
		fsm.Configure(StateIdle).
			Permit(TriggerSend, StateAwaitingResponse)
		fsm.Configure(StateAwaitingResponse).
			Permit(TriggerResponded, StateIdle)
		a.turns[id] = fsm
	}
	return fsm
}

func historySlice(msgs []chat.Message) []chat.Message {
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// save persists the current user and directory. Callers must hold a.mu.
func (a *Agent) save() {
	a.persist.Save(a.user, a.directory.Sessions())
}
