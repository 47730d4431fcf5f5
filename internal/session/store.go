package session

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/unclebandit/workflow-summary/internal/workflow"
)

const CookieName = "wf_session"

// Store keeps one workflow.State per browser session in memory. The least
// recently used session is evicted when the store is full; an evicted or
// unknown session starts over from the defaults.
type Store struct {
	states  *lru.Cache[string, *workflow.State]
	newFunc func() *workflow.State
}

func NewStore(capacity int, newFunc func() *workflow.State) (*Store, error) {
	if newFunc == nil {
		newFunc = workflow.NewDefaultState
	}
	cache, err := lru.New[string, *workflow.State](capacity)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Store{states: cache, newFunc: newFunc}, nil
}

// Get returns the state for the request's session, creating a session (and
// setting its cookie) when needed.
func (s *Store) Get(w http.ResponseWriter, r *http.Request) *workflow.State {
	if c, err := r.Cookie(CookieName); err == nil {
		if st, ok := s.states.Get(c.Value); ok {
			return st
		}
	}

	id := uuid.NewString()
	st := s.newFunc()
	s.states.Add(id, st)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

func (s *Store) Len() int { return s.states.Len() }
