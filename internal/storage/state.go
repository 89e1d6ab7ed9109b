package storage

import (
	"encoding/json"

	"github.com/abys-ai/abys-go/internal/chat"
	"github.com/abys-ai/abys-go/internal/logger"
)

// State persists the signed-in user and the session directory as two JSON
// blobs under fixed keys. Presence of the user blob is the sole signal of
// "logged in" across restarts.
type State struct {
	store *Store
}

func NewState(store *Store) *State {
	return &State{store: store}
}

// Load rehydrates the saved user and session list. A missing or malformed
// blob is treated as no saved state: it is logged and an empty result
// returned, never an error.
func (st *State) Load() (*chat.User, []*chat.ChatSession) {
	raw, ok := st.store.Get(UserKey)
	if !ok {
		return nil, nil
	}
	var user chat.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.L.Warn("discarding corrupt user blob", "error", err)
		return nil, nil
	}

	var sessions []*chat.ChatSession
	if raw, ok := st.store.Get(SessionsKey); ok {
		if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
			logger.L.Warn("discarding corrupt sessions blob", "error", err)
			sessions = nil
		}
	}
	return &user, sessions
}

// Save writes both blobs. A nil user means logged out, which clears storage
// instead.
func (st *State) Save(user *chat.User, sessions []*chat.ChatSession) {
	if user == nil {
		st.Clear()
		return
	}
	if b, err := json.Marshal(user); err == nil {
		st.store.Put(UserKey, string(b))
	} else {
		logger.L.Error("failed to encode user", "error", err)
	}
	if sessions == nil {
		sessions = []*chat.ChatSession{}
	}
	if b, err := json.Marshal(sessions); err == nil {
		st.store.Put(SessionsKey, string(b))
	} else {
		logger.L.Error("failed to encode sessions", "error", err)
	}
}

// Clear removes both blobs.
func (st *State) Clear() {
	st.store.Delete(UserKey)
	st.store.Delete(SessionsKey)
}
