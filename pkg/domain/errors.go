package domain

import "errors"

// ErrInvalidSelector is returned when a selector is too short to address a variable.
var ErrInvalidSelector = errors.New("invalid selector")

// ErrRunNotFound is returned when a run snapshot cannot be found in a store.
var ErrRunNotFound = errors.New("run not found")

// ErrFrameActive is the panic value raised when an iteration or loop frame is entered twice.
var ErrFrameActive = errors.New("frame already active")

// ErrNegativeTokens is the panic value raised when a token delta is negative.
var ErrNegativeTokens = errors.New("token delta must not be negative")

// ErrTokenOverflow is the panic value raised when the token total would exceed math.MaxInt64.
var ErrTokenOverflow = errors.New("token total overflows int64")

// ErrEmptyRunID is returned by stores when a snapshot has no run id.
var ErrEmptyRunID = errors.New("run id cannot be empty")
