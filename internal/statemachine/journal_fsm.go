package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// Journal lifecycle events.
const (
	EventPost    = "post"
	EventReverse = "reverse"
)

// JournalFSM wraps a journal entry with its lifecycle state machine.
// Draft may be posted, Posted may be reversed; nothing else moves.
type JournalFSM struct {
	entry *domain.JournalEntry
	fsm   *fsm.FSM
}

// NewJournalFSM creates a state machine positioned at the entry's current status.
func NewJournalFSM(entry *domain.JournalEntry) *JournalFSM {
	jfsm := &JournalFSM{entry: entry}

	jfsm.fsm = fsm.NewFSM(
		string(entry.Status),
		fsm.Events{
			{Name: EventPost, Src: []string{string(domain.Draft)}, Dst: string(domain.Posted)},
			{Name: EventReverse, Src: []string{string(domain.Posted)}, Dst: string(domain.Reversed)},
		},
		fsm.Callbacks{},
	)

	return jfsm
}

// CanPost reports whether the entry is a draft.
func (j *JournalFSM) CanPost() bool {
	return j.fsm.Can(EventPost)
}

// CanReverse reports whether the entry is posted.
func (j *JournalFSM) CanReverse() bool {
	return j.fsm.Can(EventReverse)
}

// Post transitions the entry to Posted.
func (j *JournalFSM) Post(ctx context.Context) error {
	return j.fire(ctx, EventPost)
}

// Reverse transitions the entry to Reversed.
func (j *JournalFSM) Reverse(ctx context.Context) error {
	return j.fire(ctx, EventReverse)
}

func (j *JournalFSM) fire(ctx context.Context, event string) error {
	if err := j.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("cannot %s journal entry %s in state %s: %w", event, j.entry.EntryNumber, j.entry.Status, err)
	}
	j.entry.Status = domain.EntryStatus(j.fsm.Current())
	return nil
}
