package bot

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"chatkit/pkg/markup"
)

var ErrNoteLimit = errors.New("notebook: note limit reached")

// Note is a saved chat note. Raw keeps the body as typed, Text and Buttons
// are its parsed form.
type Note struct {
	Name      string
	Raw       string
	Text      string
	Buttons   markup.Layout
	AuthorID  int64
	UpdatedAt time.Time
}

// Notebook keeps notes per chat in memory. Names are case-insensitive.
type Notebook struct {
	mu    sync.RWMutex
	chats map[int64]map[string]Note
	limit int
}

func NewNotebook(limit int) *Notebook {
	return &Notebook{chats: map[int64]map[string]Note{}, limit: limit}
}

// SetLimit changes the per-chat note limit; <= 0 disables it. Existing
// notes are kept.
func (n *Notebook) SetLimit(limit int) {
	n.mu.Lock()
	n.limit = limit
	n.mu.Unlock()
}

func noteKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Save stores note, replacing a note with the same name. A new name is
// rejected with ErrNoteLimit when the chat is full.
func (n *Notebook) Save(chatID int64, note Note) error {
	key := noteKey(note.Name)
	if key == "" {
		return errors.New("notebook: empty note name")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	chat := n.chats[chatID]
	if chat == nil {
		chat = map[string]Note{}
		n.chats[chatID] = chat
	}
	if _, exists := chat[key]; !exists && n.limit > 0 && len(chat) >= n.limit {
		return ErrNoteLimit
	}
	chat[key] = note
	return nil
}

func (n *Notebook) Get(chatID int64, name string) (Note, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	note, ok := n.chats[chatID][noteKey(name)]
	return note, ok
}

func (n *Notebook) Delete(chatID int64, name string) bool {
	key := noteKey(name)
	n.mu.Lock()
	defer n.mu.Unlock()
	chat := n.chats[chatID]
	if _, ok := chat[key]; !ok {
		return false
	}
	delete(chat, key)
	if len(chat) == 0 {
		delete(n.chats, chatID)
	}
	return true
}

// List returns the chat's notes sorted by name.
func (n *Notebook) List(chatID int64) []Note {
	n.mu.RLock()
	out := make([]Note, 0, len(n.chats[chatID]))
	for _, note := range n.chats[chatID] {
		out = append(out, note)
	}
	n.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return noteKey(out[i].Name) < noteKey(out[j].Name) })
	return out
}
