// Package commands indexes bot commands by category and renders the
// localized help listing.
package commands

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"chatkit/internal/i18n"
	kit "chatkit/internal/transport"
	"chatkit/pkg/tgui"
)

var ErrUnknownCategory = errors.New("commands: unknown category")

// Command is one help entry.
type Command struct {
	Name     string
	Category string
	// DescriptionKey is the i18n key of the description.
	// Default: "<Name>_description".
	DescriptionKey string
	// Context is the i18n context the description lives in.
	// Default: i18n.MainContext.
	Context string
}

// Registry is built once at startup and shared by whoever registers or
// renders commands. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	byCategory map[string][]Command
}

func NewRegistry() *Registry {
	return &Registry{byCategory: map[string][]Command{}}
}

// Add records c under its category. Empty names are ignored.
func (r *Registry) Add(c Command) {
	c.Name = strings.TrimPrefix(strings.TrimSpace(c.Name), "/")
	if c.Name == "" {
		return
	}
	c.Category = strings.TrimSpace(c.Category)
	if c.DescriptionKey == "" {
		c.DescriptionKey = c.Name + "_description"
	}
	if c.Context == "" {
		c.Context = i18n.MainContext
	}
	r.mu.Lock()
	r.byCategory[c.Category] = append(r.byCategory[c.Category], c)
	r.mu.Unlock()
}

// Categories returns the known categories, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byCategory))
	for c := range r.byCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Commands returns a sorted copy of the commands in category, or of every
// command when category is empty.
func (r *Registry) Commands(category string) ([]Command, error) {
	r.mu.RLock()
	var list []Command
	if category == "" {
		for _, cmds := range r.byCategory {
			list = append(list, cmds...)
		}
	} else {
		cmds, ok := r.byCategory[category]
		if !ok {
			r.mu.RUnlock()
			return nil, ErrUnknownCategory
		}
		list = append(list, cmds...)
	}
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Message renders the help listing for category (all categories when empty)
// in Telegram HTML:
//
//	<title>
//
//	<b>/get</b> - <i>Send a saved note</i>
//	<b>/save</b> - <i>Save a note, buttons allowed</i>
func (r *Registry) Message(strs i18n.Func, category string) (string, error) {
	cmds, err := r.Commands(category)
	if err != nil {
		return "", err
	}
	label := category
	if label == "" {
		label = "all"
	}
	title := i18n.Format(strs("command_category_title"), map[string]string{
		"category": strs(label),
	})

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, c := range cmds {
		b.WriteString(tgui.B("/" + c.Name).String())
		b.WriteString(" - ")
		b.WriteString(tgui.I(strs(c.DescriptionKey, c.Context)).String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Menu returns one entry per command name, sorted, for the platform command
// menu.
func (r *Registry) Menu(strs i18n.Func) []kit.BotCommand {
	cmds, _ := r.Commands("")
	out := make([]kit.BotCommand, 0, len(cmds))
	seen := map[string]struct{}{}
	for _, c := range cmds {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, kit.BotCommand{Command: c.Name, Description: strs(c.DescriptionKey, c.Context)})
	}
	return out
}
