// CLAUDE:SUMMARY Sentinel errors for pagerip: root page fetch failure and unwritable destination.
package pagerip

import "errors"

// ErrRootFetch is returned when the page itself cannot be fetched; nothing
// useful can be archived without it.
var ErrRootFetch = errors.New("pagerip: root page fetch failed")

// ErrDestination is returned when the output tree cannot be created or the
// rewritten page cannot be written.
var ErrDestination = errors.New("pagerip: destination not writable")
