// Package batch runs the resolve-and-emit pipeline over an ordered list
// of variant requests.
//
// The loop is sequential and isolates failures per item: any resolution or
// emission error is classified, recorded in the summary, and processing
// continues with the next request. Cancellation is honored at item
// boundaries, and a progress event is published after every item for
// whatever sink the caller wires in.
package batch
