package perms

import (
	"slices"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Sudoers is the set of bot owners allowed to run privileged commands.
type Sudoers struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewSudoers(ids []int64) *Sudoers {
	s := &Sudoers{}
	s.Set(ids)
	return s
}

// Set replaces the owner list. Zero IDs are ignored.
func (s *Sudoers) Set(ids []int64) {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id != 0 {
			m[id] = struct{}{}
		}
	}
	s.mu.Lock()
	s.ids = m
	s.mu.Unlock()
}

func (s *Sudoers) Contains(id int64) bool {
	if s == nil || id == 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Sudoers) List() []int64 {
	s.mu.RLock()
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Only wraps next so it runs for sudoers only. Everyone else gets deny, or is
// silently ignored when deny is nil.
func (s *Sudoers) Only(deny tele.HandlerFunc) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if u := c.Sender(); u != nil && s.Contains(u.ID) {
				return next(c)
			}
			if deny == nil {
				return nil
			}
			return deny(c)
		}
	}
}
