// Package navigator owns the stack of views and every rule for moving
// between them.
//
// The stack is never empty: it starts with the main menu, and popping the
// last frame reports quit instead. Each pushed frame gets a fresh view id.
// Fetches are submitted through a Fetcher under that id, and a completion
// only mutates the frame if the id still matches the top of the stack.
// Anything else is a result for a view the user already left and is
// discarded.
//
// Navigator is not safe for concurrent use. It is driven from the event
// loop goroutine only.
package navigator
