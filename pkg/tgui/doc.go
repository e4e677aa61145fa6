// Package tgui provides small Telegram UI helpers:
//   - Inline keyboards built from parsed note button layouts
//   - HTML-safe text fragments for ParseMode="HTML"
//   - Rune-safe truncation and list pagination
package tgui
