package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	tele "gopkg.in/telebot.v4"

	"chatkit/pkg/textkit"
)

var errNoTarget = errors.New("no target user")

// usernameLookup resolves @usernames. *tele.Bot satisfies it.
type usernameLookup interface {
	ChatByUsername(name string) (*tele.Chat, error)
}

// resolveTarget finds the user a moderation command is aimed at, in order:
// the author of the replied-to message, a text mention, a numeric user id or
// an @username given as the first argument.
func resolveTarget(msg *tele.Message, lookup usernameLookup) (*tele.User, error) {
	if msg == nil {
		return nil, errNoTarget
	}
	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender, nil
	}
	if e, _, ok := targetMention(msg); ok {
		return e.User, nil
	}

	fields := strings.Fields(msg.Text)
	if len(fields) < 2 {
		return nil, errNoTarget
	}
	arg := fields[1]
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id != 0 {
		return &tele.User{ID: id}, nil
	}
	if len(arg) > 1 && arg[0] == '@' {
		if lookup == nil {
			return nil, errNoTarget
		}
		chat, err := lookup.ChatByUsername(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		if chat == nil || chat.Type != tele.ChatPrivate {
			return nil, errNoTarget
		}
		return &tele.User{ID: chat.ID, Username: chat.Username, FirstName: chat.FirstName}, nil
	}
	return nil, errNoTarget
}

// targetMention returns the text mention that starts exactly at the first
// argument, along with the byte offset in msg.Text where it ends. Mentions
// elsewhere in the message, such as inside a reason, are ignored.
func targetMention(msg *tele.Message) (tele.MessageEntity, int, bool) {
	start := firstArg(msg.Text)
	if start < 0 {
		return tele.MessageEntity{}, 0, false
	}
	offset := utf16Len(msg.Text[:start])
	for _, e := range msg.Entities {
		if e.Type != tele.EntityTMention || e.User == nil || e.Offset != offset {
			continue
		}
		end := utf16Index(msg.Text, e.Offset+e.Length)
		if end < 0 {
			return tele.MessageEntity{}, 0, false
		}
		return e, end, true
	}
	return tele.MessageEntity{}, 0, false
}

// firstArg returns the byte offset of the first argument after the command,
// or -1 when there is none.
func firstArg(text string) int {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return -1
	}
	j := strings.IndexFunc(text[i:], func(r rune) bool { return !unicode.IsSpace(r) })
	if j < 0 {
		return -1
	}
	return i + j
}

// Telegram entity offsets count UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16Index converts a UTF-16 offset into a byte offset in s. It returns -1
// when units falls past the end or inside a surrogate pair.
func utf16Index(s string, units int) int {
	n := 0
	for i, r := range s {
		if n == units {
			return i
		}
		if n > units {
			return -1
		}
		n += utf16.RuneLen(r)
	}
	if n == units {
		return len(s)
	}
	return -1
}

// commandArgs returns what follows the target of a moderation command. A
// text mention may span several words, so it is skipped by its entity length.
func commandArgs(msg *tele.Message) (string, bool) {
	if msg == nil {
		return "", false
	}
	if msg.ReplyTo != nil {
		return textkit.SplitReason(msg.Text, true)
	}
	if _, end, ok := targetMention(msg); ok {
		rest := strings.TrimSpace(msg.Text[end:])
		return rest, rest != ""
	}
	return textkit.SplitReason(msg.Text, false)
}

// splitDuration separates "<duration> [reason]".
func splitDuration(args string) (dur, reason string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], textkit.DropFields(args, 1)
}
