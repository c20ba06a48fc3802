package tree

import "go.uber.org/zap"

// RBLogger receives invariant violations and release events.
// xlog.XLogger satisfies it.
type RBLogger interface {
	Debug(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
}

type rbOptions struct {
	logger          RBLogger
	capacity        int
	isDesc          bool
	checkInvariants bool
}

func newRBOptions(opts ...RBTreeOpt) *rbOptions {
	o := &rbOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// RBTreeOpt configures both RBTree and OrderedMap.
type RBTreeOpt func(*rbOptions)

// WithRBTreeDesc reverses the ordering.
func WithRBTreeDesc() RBTreeOpt {
	return func(o *rbOptions) {
		o.isDesc = true
	}
}

// WithRBArenaCapacity pre-allocates node slots.
func WithRBArenaCapacity(capacity int) RBTreeOpt {
	return func(o *rbOptions) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithRBDebugLogger validates the whole tree after every mutation and
// reports violations to logger. It is O(n) per mutation.
func WithRBDebugLogger(logger RBLogger) RBTreeOpt {
	return func(o *rbOptions) {
		o.logger = logger
	}
}

// WithRBInvariantCheck panics on the first invariant violation.
func WithRBInvariantCheck() RBTreeOpt {
	return func(o *rbOptions) {
		o.checkInvariants = true
	}
}
