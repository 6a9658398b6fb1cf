package iolink

import "fmt"

// Policy decides what happens when a single node or link cannot be read.
type Policy int

const (
	// PolicyAbort stops discovery at the first failure.
	PolicyAbort Policy = iota
	// PolicySkip records the failure in the Report and moves on.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts "abort" or "skip" into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "abort", "":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyAbort, fmt.Errorf("%w: unknown error policy %q, must be 'abort' or 'skip'", ErrInvalidArgument, s)
	}
}
