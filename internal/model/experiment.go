// Package model defines domain types for outfit experiments and comparisons.
package model

import (
	"sort"
	"time"
)

// ReservedParameter is a bookkeeping parameter name that never takes part in
// cohort comparisons.
const ReservedParameter = "exp_name"

// Experiment is one recorded run of a tracked process.
type Experiment struct {
	ID      int64
	Name    string
	Comment string    // empty when unset
	Date    time.Time // zero when unset
}

// Parameter is a named configuration value attached to an experiment.
// Values are always stored as text.
type Parameter struct {
	ID           int64
	ExperimentID int64
	Name         string
	Value        string
}

// Output references an artifact produced by an experiment.
type Output struct {
	ID           int64
	ExperimentID int64
	Type         string
	Path         string
}

// Score is a named numeric metric attached to an experiment.
type Score struct {
	ID           int64
	ExperimentID int64
	Type         string
	Value        float64
}

// Draft is an experiment that is being built up and has not been committed.
type Draft struct {
	Experiment Experiment
	Parameters []Parameter
	Outputs    []Output
	Scores     []Score
}

// Record is a committed experiment expanded with all of its child rows.
type Record struct {
	Rank       int     // 1 is best
	Value      float64 // value of the ranked score
	Experiment Experiment
	Parameters []Parameter
	Outputs    []Output
	Scores     []Score
}

// KV is one entry of an ordered mapping.
type KV[V any] struct {
	Key   string
	Value V
}

// SortedKVs converts a map into ordered entries sorted by key.
func SortedKVs[V any](m map[string]V) []KV[V] {
	kvs := make([]KV[V], 0, len(m))
	for k, v := range m {
		kvs = append(kvs, KV[V]{Key: k, Value: v})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}
