// Package perms checks chat-admin permissions for bot commands.
//
// Role resolution is delegated to Telegram (getChatMember); this package only
// interprets the resolved role and rights.
package perms

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"chatkit/internal/i18n"
	logx "chatkit/pkg/logx"
)

// Common right names, as used by the Bot API.
const (
	CanChangeInfo      = "can_change_info"
	CanDeleteMessages  = "can_delete_messages"
	CanRestrictMembers = "can_restrict_members"
	CanPinMessages     = "can_pin_messages"
	CanPromoteMembers  = "can_promote_members"
	CanInviteUsers     = "can_invite_users"
)

// MemberResolver looks up a user's membership in a chat. *tele.Bot
// satisfies it.
type MemberResolver interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// Complainer delivers a user-facing refusal.
type Complainer func(text string) error

// ReplyComplainer answers a callback query with an alert, or replies to the
// triggering message otherwise.
func ReplyComplainer(c tele.Context) Complainer {
	return func(text string) error {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
		}
		return c.Reply(text)
	}
}

// Result is the outcome of evaluating a member against required rights.
type Result struct {
	Allowed  bool
	NotAdmin bool
	Missing  []string
}

// Evaluate decides whether member holds every right in required.
// Chat creators always pass; administrators pass when required is empty.
func Evaluate(member *tele.ChatMember, required []string) Result {
	if member == nil {
		return Result{NotAdmin: true}
	}
	switch member.Role {
	case tele.Creator:
		return Result{Allowed: true}
	case tele.Administrator:
	default:
		return Result{NotAdmin: true}
	}
	if len(required) == 0 {
		return Result{Allowed: true}
	}

	held := rightsByName(member.Rights)
	var missing []string
	for _, p := range required {
		if !held[p] {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return Result{Missing: missing}
	}
	return Result{Allowed: true}
}

func rightsByName(r tele.Rights) map[string]bool {
	b, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if ok, isBool := v.(bool); isBool && ok {
			out[k] = true
		}
	}
	return out
}

// Checker resolves members and complains, at most once per cooldown for the
// same chat and user, when a check fails.
type Checker struct {
	resolver MemberResolver
	log      logx.Logger
	cooldown time.Duration

	mu       sync.Mutex
	limiters map[[2]int64]*rate.Limiter
}

func NewChecker(resolver MemberResolver, log logx.Logger) *Checker {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Checker{
		resolver: resolver,
		log:      log,
		cooldown: 3 * time.Second,
		limiters: map[[2]int64]*rate.Limiter{},
	}
}

// Check reports whether user holds every right in required within chat.
// When it does not and complain is non-nil, the localized reason
// (no_admin_error or no_permission_error) is sent through complain.
func (c *Checker) Check(ctx context.Context, chat *tele.Chat, user *tele.User, required []string, strs i18n.Func, complain Complainer) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if chat == nil || user == nil {
		return false, nil
	}
	member, err := c.resolver.ChatMemberOf(chat, user)
	if err != nil {
		return false, fmt.Errorf("perms: chat member %d in %d: %w", user.ID, chat.ID, err)
	}

	res := Evaluate(member, required)
	if res.Allowed {
		return true, nil
	}
	c.log.Debug("permission denied",
		logx.Int64("chat_id", chat.ID),
		logx.Int64("user_id", user.ID),
		logx.Bool("not_admin", res.NotAdmin),
		logx.Strings("missing", res.Missing),
	)
	if complain == nil || !c.allow(chat.ID, user.ID) {
		return false, nil
	}

	var text string
	if res.NotAdmin {
		text = strs("no_admin_error")
	} else {
		text = i18n.Format(strs("no_permission_error"), map[string]string{
			"permissions": strings.Join(res.Missing, ", "),
		})
	}
	if err := complain(text); err != nil {
		c.log.Warn("permission complaint failed", logx.Err(err), logx.Int64("chat_id", chat.ID))
	}
	return false, nil
}

func (c *Checker) allow(chatID, userID int64) bool {
	key := [2]int64{chatID, userID}
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[key]
	if !ok {
		if len(c.limiters) > 4096 {
			c.limiters = map[[2]int64]*rate.Limiter{}
		}
		lim = rate.NewLimiter(rate.Every(c.cooldown), 1)
		c.limiters[key] = lim
	}
	return lim.Allow()
}
