package bot

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "chatkit/pkg/logx"
)

// Recover turns a handler panic into an error so one bad update cannot take
// the poller down.
func Recover(log logx.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered",
						append(updateFields(c),
							logx.Any("panic", r),
							logx.String("stack", string(debug.Stack())),
						)...,
					)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

// RequestLog logs every handled update. Fast successful requests go to
// DEBUG.
func RequestLog(log logx.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)
			d := time.Since(start)

			fields := append(updateFields(c), logx.Duration("dur", d))
			switch {
			case err != nil:
				log.Warn("request failed", append(fields, logx.Err(err))...)
			case d >= 750*time.Millisecond:
				log.Info("request ok", fields...)
			default:
				log.Debug("request ok", fields...)
			}
			return err
		}
	}
}

func updateFields(c tele.Context) []logx.Field {
	if c == nil {
		return nil
	}
	var fields []logx.Field
	if chat := c.Chat(); chat != nil {
		fields = append(fields, logx.Int64("chat_id", chat.ID))
	}
	if u := c.Sender(); u != nil {
		fields = append(fields, logx.Int64("from_id", u.ID))
	}
	if msg := c.Message(); msg != nil {
		if cmd := commandOf(msg.Text); cmd != "" {
			fields = append(fields, logx.String("cmd", cmd))
		}
	}
	return fields
}

// commandOf returns "/name" for a command line (dropping any @bot suffix),
// or "".
func commandOf(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(strings.Fields(text)[0], "@")
	return cmd
}
