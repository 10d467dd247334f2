package source

import (
	"time"

	"github.com/theirongolddev/outfit/internal/model"
)

// RawEntry is a single line of a JSONL experiment log.
//
//	{"name":"resnet","comment":"baseline","date":"2024-03-01",
//	 "parameters":{"lr":0.1,"depth":18},
//	 "outputs":{"model":"/runs/resnet.pt"},
//	 "scores":{"acc":0.91}}
type RawEntry struct {
	Name       string          `json:"name"`
	Comment    string          `json:"comment,omitempty"`
	Date       string          `json:"date,omitempty"`
	Parameters fields[any]     `json:"parameters,omitempty"`
	Outputs    fields[string]  `json:"outputs,omitempty"`
	Scores     fields[float64] `json:"scores,omitempty"`
}

// Entry is a validated log line, ready to be recorded. Objects become
// entries in the order they were written; numeric parameters keep their
// literal text as json.Number.
type Entry struct {
	Line       int
	Name       string
	Comment    string
	Date       time.Time
	Parameters []model.KV[any]
	Outputs    []model.KV[string]
	Scores     []model.KV[float64]
}

// DiscoveredFile represents a JSONL file found during directory scanning.
type DiscoveredFile struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}
