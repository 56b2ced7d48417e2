// Package scenario replays scripted run/reset/advance sequences against a
// sequencer on a virtual clock.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/mrviz/internal/config"
	"github.com/san-kum/mrviz/internal/sequencer"
	"github.com/san-kum/mrviz/internal/trace"
	"gopkg.in/yaml.v3"
)

const (
	ActionRun     = "run"
	ActionReset   = "reset"
	ActionAdvance = "advance"
	ActionDrain   = "drain"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Scenario is a scripted sequence of user actions.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one action. Text and Preset apply to run, Ms to advance.
type Step struct {
	Action string `yaml:"action"`
	Text   string `yaml:"text,omitempty"`
	Preset string `yaml:"preset,omitempty"`
	Ms     int    `yaml:"ms,omitempty"`
}

// Result is what a played scenario left behind.
type Result struct {
	Name     string
	Events   []trace.Event
	Accepted int
	Rejected int
	Final    sequencer.Stage
	Duration time.Duration
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		switch step.Action {
		case ActionRun:
			if step.Preset != "" {
				if _, ok := config.GetPreset(step.Preset); !ok {
					return fmt.Errorf("step %d: %w: %s", i+1, ErrUnknownPreset, step.Preset)
				}
			}
		case ActionAdvance:
			if step.Ms < 0 {
				return fmt.Errorf("step %d: advance needs ms >= 0, got %d", i+1, step.Ms)
			}
		case ActionReset, ActionDrain:
		default:
			return fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
	}
	return nil
}

func (st Step) text() string {
	if st.Preset != "" {
		text, _ := config.GetPreset(st.Preset)
		return text
	}
	return st.Text
}

// Play runs every step on a fresh loop. Pending callbacks are left queued
// unless the scenario drains them.
func (s *Scenario) Play(timing sequencer.Timing, logger *log.Logger) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	loop := sequencer.NewLoop()
	rec := trace.NewRecorder(loop.Now)
	seq := sequencer.New(loop, rec, sequencer.WithTiming(timing), sequencer.WithLogger(logger))
	res := &Result{Name: s.Name}

	for i, step := range s.Steps {
		logger.Debug("scenario step", "n", i+1, "action", step.Action, "at", loop.Now())
		switch step.Action {
		case ActionRun:
			if seq.Run(step.text()) {
				res.Accepted++
			} else {
				res.Rejected++
			}
		case ActionReset:
			seq.Reset()
		case ActionAdvance:
			loop.Advance(time.Duration(step.Ms) * time.Millisecond)
		case ActionDrain:
			loop.Drain()
		}
	}

	res.Events = rec.Events()
	res.Final = seq.Stage()
	res.Duration = loop.Now()
	return res, nil
}
