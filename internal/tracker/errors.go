// Package tracker records experiments and answers ranking and comparison
// questions over the record store.
package tracker

import (
	"errors"

	"github.com/theirongolddev/outfit/internal/store"
)

var (
	// ErrInvalidArgument reports a caller-supplied value outside the accepted set.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoActiveExperiment is returned by Recorder calls made before Begin.
	ErrNoActiveExperiment = errors.New("no experiment in progress")
	// ErrExperimentInProgress is returned by Begin while a draft is pending.
	ErrExperimentInProgress = errors.New("experiment already in progress")

	// ErrNotFound and ErrReferentialIntegrity come from the store.
	ErrNotFound             = store.ErrNotFound
	ErrReferentialIntegrity = store.ErrReferentialIntegrity
)
