package service

import "fmt"

type OutcomeKind string

const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeUpdated OutcomeKind = "updated"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeError   OutcomeKind = "error"
)

// Outcome: hasil normalisasi satu event. Reason hanya terisi untuk OutcomeError.
type Outcome struct {
	Kind   OutcomeKind
	Key    string
	Reason string
}

func created(key string) Outcome { return Outcome{Kind: OutcomeCreated, Key: key} }
func updated(key string) Outcome { return Outcome{Kind: OutcomeUpdated, Key: key} }
func skipped(key string) Outcome { return Outcome{Kind: OutcomeSkipped, Key: key} }

func failed(key, reason string) Outcome {
	return Outcome{Kind: OutcomeError, Key: key, Reason: reason}
}

func failedStore(key string, err error) Outcome {
	return failed(key, fmt.Sprintf("%s: %v", key, err))
}
