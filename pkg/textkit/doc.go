// Package textkit holds small text helpers for bot command handlers:
// quote-aware argument splitting, escape removal, brace-template key
// extraction, relative time parsing and human-readable sizes.
//
// None of the helpers panic or fail on malformed user input; they degrade to
// a plain split or report a sentinel error meant to be shown to the user.
package textkit
