// Package session keeps durable player identities alive across
// transport reconnects. A session outlives its websocket by a grace
// window; only when that expires does the player actually leave their
// room.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CleanupGrace is how long a disconnected session is kept before the
// player is removed for good.
const CleanupGrace = 30 * time.Second

type Session struct {
	ID             string
	Name           string
	Avatar         string
	RoomID         string
	ConnID         string
	DisconnectedAt time.Time

	cleanup *time.Timer
}

// Connected reports whether a live connection is bound.
func (s *Session) Connected() bool { return s.ConnID != "" }

// ExpireFunc runs when a session's grace window lapses; it is handed
// the room the player was in so the caller can evict them.
type ExpireFunc func(roomID, playerID string)

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	grace    time.Duration
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return NewRegistryWithGrace(log, CleanupGrace)
}

func NewRegistryWithGrace(log *zap.Logger, grace time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		grace:    grace,
		log:      log,
	}
}

// ResolveOrCreate returns the session for a client token, minting a
// fresh identity when the token is unknown or absent. Idempotent: the
// same token always lands on the same session until it expires.
func (r *Registry) ResolveOrCreate(token string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token != "" {
		if s, ok := r.sessions[token]; ok {
			return s
		}
	}
	if token == "" {
		token = uuid.NewString()
	}
	s := &Session{ID: token}
	r.sessions[token] = s
	r.log.Debug("session created", zap.String("session", token))
	return s
}

// Lookup finds a live session. A miss after cleanup means the identity
// is gone for good and the client must reset.
func (r *Registry) Lookup(token string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	return s, ok
}

// Bind attaches a live connection, cancelling any pending cleanup from
// a prior disconnect.
func (r *Registry) Bind(s *Session, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.cleanup != nil {
		s.cleanup.Stop()
		s.cleanup = nil
	}
	s.ConnID = connID
	s.DisconnectedAt = time.Time{}
}

// SetProfile records the client-chosen name/avatar and room binding.
func (r *Registry) SetProfile(s *Session, name, avatar, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name != "" {
		s.Name = name
	}
	if avatar != "" {
		s.Avatar = avatar
	}
	s.RoomID = roomID
}

// MarkDisconnected clears the live connection and arms the cleanup
// timer. connID must be the connection that is going away: a stale
// teardown from a socket the session already replaced is ignored. If
// the session reconnects first, Bind disarms the timer; otherwise
// onExpire fires exactly once and the session is deleted.
func (r *Registry) MarkDisconnected(s *Session, connID string, onExpire ExpireFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ConnID != connID {
		return
	}
	s.ConnID = ""
	s.DisconnectedAt = time.Now()
	if s.cleanup != nil {
		s.cleanup.Stop()
	}
	s.cleanup = time.AfterFunc(r.grace, func() {
		r.expire(s.ID, onExpire)
	})
	r.log.Debug("session disconnected", zap.String("session", s.ID))
}

func (r *Registry) expire(id string, onExpire ExpireFunc) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.Connected() {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, id)
	roomID := s.RoomID
	r.mu.Unlock()

	r.log.Info("session expired", zap.String("session", id), zap.String("room", roomID))
	if onExpire != nil {
		onExpire(roomID, id)
	}
}

// RemoveByRoom releases every session bound to a destroyed room. Their
// identities are gone with the game; a reconnect starts fresh.
func (r *Registry) RemoveByRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.RoomID != roomID {
			continue
		}
		if s.cleanup != nil {
			s.cleanup.Stop()
		}
		delete(r.sessions, id)
	}
}

// Remove drops a session outright (its room was destroyed).
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		if s.cleanup != nil {
			s.cleanup.Stop()
		}
		delete(r.sessions, id)
	}
}

// Len reports how many sessions are alive (tests).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
