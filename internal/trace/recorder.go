package trace

import (
	"time"

	"github.com/san-kum/mrviz/internal/mapreduce"
	"github.com/san-kum/mrviz/internal/sequencer"
)

type Kind string

const (
	KindClear      Kind = "clear"
	KindStage      Kind = "stage"
	KindRunEnabled Kind = "run-enabled"
	KindMapChip    Kind = "map"
	KindBucket     Kind = "bucket"
	KindBucketChip Kind = "bucket-chip"
	KindReduceChip Kind = "reduce"
)

// Event is one view update stamped with the loop time it happened at.
// WriteJSON exports it with the time in milliseconds.
type Event struct {
	At      time.Duration
	Kind    Kind
	Stage   string
	Key     mapreduce.Token
	Value   int
	Enabled *bool
}

// Recorder is a sequencer.View that keeps every update in order.
type Recorder struct {
	now    func() time.Duration
	events []Event
}

func NewRecorder(now func() time.Duration) *Recorder {
	return &Recorder{now: now}
}

func (r *Recorder) Events() []Event { return r.events }

func (r *Recorder) add(e Event) {
	e.At = r.now()
	r.events = append(r.events, e)
}

func (r *Recorder) Clear() { r.add(Event{Kind: KindClear}) }

func (r *Recorder) SetStage(s sequencer.Stage) {
	r.add(Event{Kind: KindStage, Stage: s.String()})
}

func (r *Recorder) SetRunEnabled(enabled bool) {
	r.add(Event{Kind: KindRunEnabled, Enabled: &enabled})
}

func (r *Recorder) AppendMapChip(c sequencer.Chip) {
	r.add(Event{Kind: KindMapChip, Key: c.Key, Value: c.Value})
}

func (r *Recorder) AppendBucket(key mapreduce.Token) {
	r.add(Event{Kind: KindBucket, Key: key})
}

func (r *Recorder) AppendBucketChip(key mapreduce.Token, c sequencer.Chip) {
	r.add(Event{Kind: KindBucketChip, Key: key, Value: c.Value})
}

func (r *Recorder) AppendReduceChip(c sequencer.Chip) {
	r.add(Event{Kind: KindReduceChip, Key: c.Key, Value: c.Value})
}

// Filter returns the events of the given kind.
func (r *Recorder) Filter(kind Kind) []Event {
	out := make([]Event, 0)
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
