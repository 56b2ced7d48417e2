package sequencer

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/mrviz/internal/mapreduce"
)

// Timing holds the animation delays.
type Timing struct {
	MapStep  time.Duration // before each map chip
	StageGap time.Duration // between stages
	ChipStep time.Duration // between consecutive bucket or reduce chips
}

func DefaultTiming() Timing {
	return Timing{
		MapStep:  150 * time.Millisecond,
		StageGap: 400 * time.Millisecond,
		ChipStep: 120 * time.Millisecond,
	}
}

type Option func(*Sequencer)

func WithTiming(t Timing) Option {
	return func(s *Sequencer) { s.timing = t }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// Sequencer is not safe for concurrent use; drive it and its Scheduler from a
// single goroutine.
type Sequencer struct {
	sched   Scheduler
	view    View
	timing  Timing
	logger  *log.Logger
	gen     uint64
	busy    bool
	stage   Stage
	current *Session
}

func New(sched Scheduler, view View, opts ...Option) *Sequencer {
	s := &Sequencer{
		sched:  sched,
		view:   view,
		timing: DefaultTiming(),
		logger: log.New(io.Discard),
		stage:  StageIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sequencer) Stage() Stage       { return s.stage }
func (s *Sequencer) Busy() bool         { return s.busy }
func (s *Sequencer) Generation() uint64 { return s.gen }
func (s *Sequencer) Timing() Timing     { return s.timing }

// Current returns the active or most recently finished session, or nil after
// a Reset.
func (s *Sequencer) Current() *Session { return s.current }

// Run starts animating text. It returns false, and changes nothing, while a
// previous run is still in flight.
func (s *Sequencer) Run(text string) bool {
	if s.busy {
		s.logger.Debug("run rejected, sequencer busy", "gen", s.gen, "stage", s.stage)
		return false
	}

	s.gen++
	sess := &Session{Gen: s.gen, Text: text, Stage: StageIdle}
	s.current = sess
	s.busy = true

	s.view.Clear()
	s.view.SetStage(StageIdle)
	s.view.SetRunEnabled(false)

	s.mapStage(sess)
	return true
}

// Reset abandons any in-flight run and returns the view to Idle. Callbacks
// already scheduled for the abandoned run become no-ops.
func (s *Sequencer) Reset() {
	s.gen++
	s.busy = false
	s.current = nil
	s.stage = StageIdle

	s.view.Clear()
	s.view.SetStage(StageIdle)
	s.view.SetRunEnabled(true)
	s.logger.Debug("reset", "gen", s.gen)
}

func (s *Sequencer) enter(sess *Session, stage Stage) {
	sess.Stage = stage
	s.stage = stage
	s.view.SetStage(stage)
	s.logger.Debug("stage", "gen", sess.Gen, "stage", stage)
}

// after schedules fn for sess, dropping it if sess has been superseded.
func (s *Sequencer) after(sess *Session, d time.Duration, fn func(*Session)) {
	s.sched.After(d, func() {
		if sess.Gen != s.gen {
			return
		}
		fn(sess)
	})
}

func (s *Sequencer) mapStage(sess *Session) {
	s.enter(sess, StageMapping)
	sess.Tokens = mapreduce.Tokenize(sess.Text)
	sess.Pairs = mapreduce.Emit(sess.Tokens)
	s.logger.Info("run started", "gen", sess.Gen, "tokens", len(sess.Tokens))
	s.emitPair(sess, 0)
}

// emitPair appends map chips one at a time, each gated on the previous one.
func (s *Sequencer) emitPair(sess *Session, i int) {
	if i == len(sess.Pairs) {
		s.enter(sess, StageShuffling)
		s.after(sess, s.timing.StageGap, s.shuffleStage)
		return
	}
	s.after(sess, s.timing.MapStep, func(sess *Session) {
		p := sess.Pairs[i]
		s.view.AppendMapChip(Chip{Key: p.Key, Value: p.Value})
		s.emitPair(sess, i+1)
	})
}

func (s *Sequencer) shuffleStage(sess *Session) {
	sess.Groups = mapreduce.Group(sess.Pairs)
	b := newBarrier(sess.Groups.Total())

	for _, key := range mapreduce.ShuffleOrder(sess.Groups) {
		s.view.AppendBucket(key)
		for idx, v := range sess.Groups[key] {
			chip := Chip{Key: key, Value: v}
			s.after(sess, time.Duration(idx)*s.timing.ChipStep, func(*Session) {
				s.view.AppendBucketChip(chip.Key, chip)
				b.done()
			})
		}
	}

	b.wait(func() {
		s.after(sess, s.timing.StageGap, s.reduceStage)
	})
}

func (s *Sequencer) reduceStage(sess *Session) {
	s.enter(sess, StageReducing)
	sess.Results = mapreduce.Reduce(sess.Groups)
	keys := mapreduce.ReduceOrder(sess.Results)
	b := newBarrier(len(keys))

	for i, key := range keys {
		chip := Chip{Key: key, Value: sess.Results[key]}
		s.after(sess, time.Duration(i)*s.timing.ChipStep, func(*Session) {
			s.view.AppendReduceChip(chip)
			b.done()
		})
	}

	b.wait(func() {
		s.after(sess, s.timing.StageGap, s.finish)
	})
}

func (s *Sequencer) finish(sess *Session) {
	s.enter(sess, StageDone)
	s.busy = false
	s.view.SetRunEnabled(true)
	s.logger.Info("run complete", "gen", sess.Gen, "keys", len(sess.Results))
}
