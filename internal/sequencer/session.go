package sequencer

import "github.com/san-kum/mrviz/internal/mapreduce"

// Session is the state owned by one Run. Fields are filled in as the session
// moves through its stages.
type Session struct {
	Gen     uint64
	Text    string
	Stage   Stage
	Tokens  []mapreduce.Token
	Pairs   []mapreduce.Pair
	Groups  mapreduce.Groups
	Results mapreduce.Results
}

// barrier counts outstanding chip appends and calls its release func once
// the count reaches zero.
type barrier struct {
	remaining int
	release   func()
}

func newBarrier(n int) *barrier {
	return &barrier{remaining: n}
}

func (b *barrier) done() {
	b.remaining--
	if b.remaining == 0 && b.release != nil {
		b.release()
	}
}

// wait sets the release func. With nothing outstanding it runs immediately.
func (b *barrier) wait(fn func()) {
	if b.remaining <= 0 {
		fn()
		return
	}
	b.release = fn
}
