// Package ui implements the interactive artist-connect dialog.
//
// # Architecture
//
// The dialog is split into a pure reducer and a bubbletea shell. All state
// transitions live in [Reduce], which takes the current [DialogState] and an
// [Action] and returns the next state. The bubbletea [Model] translates
// terminal events into actions and runs side effects (searches, the connect
// call) as commands.
//
// Keeping transitions pure makes the keyboard behavior testable without a
// terminal: wraparound at list boundaries, index resets on query edits, and
// phase changes are all plain function calls in tests.
//
// # Search Debounce And Fencing
//
// Typing schedules a search 300ms out via tea.Tick; further keystrokes within
// the window supersede it. Every dispatched search carries a sequence number
// and responses bearing a stale sequence are dropped, so a slow early
// response can never overwrite the results of a later query.
package ui
