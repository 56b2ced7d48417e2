package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mrviz/internal/mapreduce"
	"github.com/san-kum/mrviz/internal/sequencer"
)

// Trace is the full timeline of one headless run.
type Trace struct {
	Text     string
	Events   []Event
	Session  *sequencer.Session
	Duration time.Duration
}

// Play animates text on a fresh loop and drains it.
func Play(text string, timing sequencer.Timing, logger *log.Logger) *Trace {
	loop := sequencer.NewLoop()
	rec := NewRecorder(loop.Now)

	opts := []sequencer.Option{sequencer.WithTiming(timing)}
	if logger != nil {
		opts = append(opts, sequencer.WithLogger(logger))
	}
	seq := sequencer.New(loop, rec, opts...)
	seq.Run(text)
	loop.Drain()

	return &Trace{
		Text:     text,
		Events:   rec.Events(),
		Session:  seq.Current(),
		Duration: loop.Now(),
	}
}

// WriteTable prints one line per event.
func WriteTable(w io.Writer, events []Event) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tDETAIL")

	for _, e := range events {
		fmt.Fprintf(tw, "%6dms\t%s\t%s\n", e.At.Milliseconds(), e.Kind, detail(e))
	}
	return tw.Flush()
}

func detail(e Event) string {
	switch e.Kind {
	case KindStage:
		return e.Stage
	case KindRunEnabled:
		if e.Enabled != nil && *e.Enabled {
			return "enabled"
		}
		return "disabled"
	case KindMapChip, KindBucketChip, KindReduceChip:
		return fmt.Sprintf("<%s, %d>", e.Key, e.Value)
	case KindBucket:
		return string(e.Key)
	}
	return ""
}

type exportEvent struct {
	AtMs    int64           `json:"at_ms"`
	Kind    Kind            `json:"kind"`
	Stage   string          `json:"stage,omitempty"`
	Key     mapreduce.Token `json:"key,omitempty"`
	Value   int             `json:"value,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

type exportResult struct {
	Key   mapreduce.Token `json:"key"`
	Count int             `json:"count"`
}

type ExportData struct {
	Text       string            `json:"text"`
	Tokens     []mapreduce.Token `json:"tokens"`
	Results    []exportResult    `json:"results"`
	DurationMs int64             `json:"duration_ms"`
	Events     []exportEvent     `json:"events"`
}

func (t *Trace) Export() ExportData {
	data := ExportData{
		Text:       t.Text,
		Tokens:     []mapreduce.Token{},
		Results:    []exportResult{},
		DurationMs: t.Duration.Milliseconds(),
		Events:     make([]exportEvent, len(t.Events)),
	}
	for i, e := range t.Events {
		data.Events[i] = exportEvent{
			AtMs:    e.At.Milliseconds(),
			Kind:    e.Kind,
			Stage:   e.Stage,
			Key:     e.Key,
			Value:   e.Value,
			Enabled: e.Enabled,
		}
	}
	if t.Session != nil {
		if t.Session.Tokens != nil {
			data.Tokens = t.Session.Tokens
		}
		for _, k := range mapreduce.ReduceOrder(t.Session.Results) {
			data.Results = append(data.Results, exportResult{Key: k, Count: t.Session.Results[k]})
		}
	}
	return data
}

func (t *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Export())
}

// Plot draws the counts in reduce order. It returns "" when there is nothing
// to plot.
func Plot(results mapreduce.Results, width, height int) string {
	keys := mapreduce.ReduceOrder(results)
	if len(keys) == 0 {
		return ""
	}

	data := make([]float64, len(keys))
	names := make([]string, len(keys))
	for i, k := range keys {
		data[i] = float64(results[k])
		names[i] = string(k)
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	caption := strings.Join(names, " ")
	if width > 3 && len(caption) > width {
		caption = caption[:width-3] + "..."
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}
