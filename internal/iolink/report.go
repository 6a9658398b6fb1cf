package iolink

import "time"

// SkippedEntry describes a node or link that PolicySkip left out.
type SkippedEntry struct {
	Node uint32
	// Link is nil when the whole node was skipped.
	Link   *uint32
	Reason string
	Err    error
}

// Report summarises one discovery pass.
type Report struct {
	Nodes      int
	Links      int
	Duplicates int
	Skipped    []SkippedEntry
	Duration   time.Duration
}

func (r *Report) skipNode(node uint32, err error) {
	r.Skipped = append(r.Skipped, SkippedEntry{Node: node, Reason: reason(err), Err: err})
}

func (r *Report) skipLink(node, link uint32, err error) {
	r.Skipped = append(r.Skipped, SkippedEntry{Node: node, Link: &link, Reason: reason(err), Err: err})
}
