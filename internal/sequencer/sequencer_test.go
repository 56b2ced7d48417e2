package sequencer_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mrviz/internal/mapreduce"
	"github.com/san-kum/mrviz/internal/sequencer"
)

type event struct {
	At   time.Duration
	Kind string
	Key  mapreduce.Token
}

// fakeView keeps the three containers plus an event log.
type fakeView struct {
	loop       *sequencer.Loop
	stage      sequencer.Stage
	runEnabled bool
	mapChips   []sequencer.Chip
	buckets    []mapreduce.Token
	bucketed   map[mapreduce.Token][]sequencer.Chip
	reduced    []sequencer.Chip
	events     []event
}

func newFakeView(loop *sequencer.Loop) *fakeView {
	return &fakeView{loop: loop, runEnabled: true, bucketed: map[mapreduce.Token][]sequencer.Chip{}}
}

func (v *fakeView) log(kind string, key mapreduce.Token) {
	v.events = append(v.events, event{At: v.loop.Now(), Kind: kind, Key: key})
}

func (v *fakeView) Clear() {
	v.mapChips, v.buckets, v.reduced = nil, nil, nil
	v.bucketed = map[mapreduce.Token][]sequencer.Chip{}
	v.log("clear", "")
}

func (v *fakeView) SetStage(s sequencer.Stage) {
	v.stage = s
	v.log("stage:"+s.String(), "")
}

func (v *fakeView) SetRunEnabled(enabled bool) { v.runEnabled = enabled }

func (v *fakeView) AppendMapChip(c sequencer.Chip) {
	v.mapChips = append(v.mapChips, c)
	v.log("map", c.Key)
}

func (v *fakeView) AppendBucket(key mapreduce.Token) {
	v.buckets = append(v.buckets, key)
	v.log("bucket", key)
}

func (v *fakeView) AppendBucketChip(key mapreduce.Token, c sequencer.Chip) {
	v.bucketed[key] = append(v.bucketed[key], c)
	v.log("bucket-chip", key)
}

func (v *fakeView) AppendReduceChip(c sequencer.Chip) {
	v.reduced = append(v.reduced, c)
	v.log("reduce", c.Key)
}

func (v *fakeView) firstAt(kind string) time.Duration {
	for _, e := range v.events {
		if e.Kind == kind {
			return e.At
		}
	}
	Fail("no event " + kind)
	return 0
}

func (v *fakeView) lastAt(kind string) time.Duration {
	at := time.Duration(-1)
	for _, e := range v.events {
		if e.Kind == kind {
			at = e.At
		}
	}
	Expect(at).NotTo(BeNumerically("<", 0), "no event "+kind)
	return at
}

func (v *fakeView) count(kind string) int {
	n := 0
	for _, e := range v.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func keys(chips []sequencer.Chip) []mapreduce.Token {
	out := make([]mapreduce.Token, len(chips))
	for i, c := range chips {
		out[i] = c.Key
	}
	return out
}

const ms = time.Millisecond

var _ = Describe("Sequencer", func() {
	var (
		loop *sequencer.Loop
		view *fakeView
		seq  *sequencer.Sequencer
	)

	BeforeEach(func() {
		loop = sequencer.NewLoop()
		view = newFakeView(loop)
		seq = sequencer.New(loop, view)
	})

	It("starts idle", func() {
		Expect(seq.Stage()).To(Equal(sequencer.StageIdle))
		Expect(seq.Busy()).To(BeFalse())
		Expect(seq.Current()).To(BeNil())
	})

	Context("with \"to be or not to be\"", func() {
		BeforeEach(func() {
			Expect(seq.Run("to be or not to be")).To(BeTrue())
		})

		It("disables the run trigger until done", func() {
			Expect(seq.Busy()).To(BeTrue())
			Expect(view.runEnabled).To(BeFalse())
			Expect(view.stage).To(Equal(sequencer.StageMapping))

			loop.Drain()

			Expect(seq.Busy()).To(BeFalse())
			Expect(view.runEnabled).To(BeTrue())
			Expect(view.stage).To(Equal(sequencer.StageDone))
		})

		It("appends map chips one at a time", func() {
			loop.Advance(149 * ms)
			Expect(view.mapChips).To(BeEmpty())

			loop.Advance(1 * ms)
			Expect(view.mapChips).To(HaveLen(1))

			loop.Advance(450 * ms)
			Expect(view.mapChips).To(HaveLen(4))

			loop.Advance(300 * ms)
			Expect(keys(view.mapChips)).To(Equal([]mapreduce.Token{"to", "be", "or", "not", "to", "be"}))
			for _, c := range view.mapChips {
				Expect(c.Value).To(Equal(1))
			}
			Expect(view.stage).To(Equal(sequencer.StageShuffling))
		})

		It("creates buckets in lexicographic order after the stage gap", func() {
			loop.Drain()

			Expect(view.buckets).To(Equal([]mapreduce.Token{"be", "not", "or", "to"}))
			Expect(view.firstAt("bucket")).To(Equal(view.lastAt("map") + 400*ms))
			Expect(view.bucketed["be"]).To(HaveLen(2))
			Expect(view.bucketed["to"]).To(HaveLen(2))
			Expect(view.bucketed["or"]).To(HaveLen(1))
		})

		It("staggers chips inside each bucket concurrently", func() {
			loop.Drain()

			start := view.firstAt("bucket")
			var toTimes []time.Duration
			for _, e := range view.events {
				if e.Kind == "bucket-chip" && e.Key == "to" {
					toTimes = append(toTimes, e.At)
				}
			}
			Expect(toTimes).To(Equal([]time.Duration{start, start + 120*ms}))
		})

		It("starts reduce only after the last shuffle chip", func() {
			loop.Drain()

			Expect(view.firstAt("stage:reducing")).To(Equal(view.lastAt("bucket-chip") + 400*ms))
			Expect(view.firstAt("reduce")).To(BeNumerically(">", view.lastAt("bucket-chip")))
		})

		It("renders results by count then key", func() {
			loop.Drain()

			Expect(view.reduced).To(Equal([]sequencer.Chip{
				{Key: "be", Value: 2},
				{Key: "to", Value: 2},
				{Key: "not", Value: 1},
				{Key: "or", Value: 1},
			}))

			sess := seq.Current()
			Expect(sess).NotTo(BeNil())
			Expect(sess.Results).To(Equal(mapreduce.Results{"to": 2, "be": 2, "not": 1, "or": 1}))
			Expect(sess.Stage).To(Equal(sequencer.StageDone))
		})

		It("finishes a stage gap after the last reduce chip", func() {
			loop.Drain()
			Expect(view.firstAt("stage:done")).To(Equal(view.lastAt("reduce") + 400*ms))
		})

		It("rejects a second run while busy", func() {
			gen := seq.Generation()
			Expect(seq.Run("something else")).To(BeFalse())
			Expect(seq.Generation()).To(Equal(gen))

			loop.Drain()
			Expect(view.mapChips).To(HaveLen(6))
		})

		It("can run again once done", func() {
			loop.Drain()
			Expect(seq.Run("a a")).To(BeTrue())
			loop.Drain()

			Expect(keys(view.mapChips)).To(Equal([]mapreduce.Token{"a", "a"}))
			Expect(view.reduced).To(Equal([]sequencer.Chip{{Key: "a", Value: 2}}))
		})

		It("passes through every stage in order", func() {
			loop.Drain()

			var stages []string
			for _, e := range view.events {
				if len(e.Kind) > 6 && e.Kind[:6] == "stage:" {
					stages = append(stages, e.Kind[6:])
				}
			}
			Expect(stages).To(Equal([]string{"idle", "mapping", "shuffling", "reducing", "done"}))
		})
	})

	Context("with empty input", func() {
		It("reaches done with no chips or buckets", func() {
			Expect(seq.Run("")).To(BeTrue())
			loop.Drain()

			Expect(view.count("map")).To(BeZero())
			Expect(view.count("bucket")).To(BeZero())
			Expect(view.count("reduce")).To(BeZero())
			Expect(view.stage).To(Equal(sequencer.StageDone))
			Expect(view.runEnabled).To(BeTrue())
			Expect(seq.Current().Results).To(BeEmpty())
		})

		It("treats punctuation-only input the same", func() {
			Expect(seq.Run("  ,;!  ")).To(BeTrue())
			loop.Drain()
			Expect(view.stage).To(Equal(sequencer.StageDone))
			Expect(view.mapChips).To(BeEmpty())
		})
	})

	Context("reset", func() {
		It("empties everything immediately while mapping", func() {
			seq.Run("to be or not to be")
			loop.Advance(400 * ms)
			Expect(view.mapChips).To(HaveLen(2))

			seq.Reset()

			Expect(view.mapChips).To(BeEmpty())
			Expect(view.buckets).To(BeEmpty())
			Expect(view.reduced).To(BeEmpty())
			Expect(view.stage).To(Equal(sequencer.StageIdle))
			Expect(view.runEnabled).To(BeTrue())
			Expect(seq.Busy()).To(BeFalse())
		})

		It("drops callbacks scheduled by the abandoned run", func() {
			seq.Run("to be or not to be")
			loop.Advance(1500 * ms)
			Expect(loop.Pending()).To(BeNumerically(">", 0))

			seq.Reset()
			before := len(view.events)
			loop.Drain()

			Expect(view.events).To(HaveLen(before))
			Expect(view.stage).To(Equal(sequencer.StageIdle))
		})

		It("lets a new run start cleanly after reset", func() {
			seq.Run("to be or not to be")
			loop.Advance(300 * ms)
			seq.Reset()

			Expect(seq.Run("x y x")).To(BeTrue())
			loop.Drain()

			Expect(keys(view.mapChips)).To(Equal([]mapreduce.Token{"x", "y", "x"}))
			Expect(view.buckets).To(Equal([]mapreduce.Token{"x", "y"}))
			Expect(view.reduced).To(Equal([]sequencer.Chip{{Key: "x", Value: 2}, {Key: "y", Value: 1}}))
		})

		It("is harmless while idle", func() {
			seq.Reset()
			Expect(view.stage).To(Equal(sequencer.StageIdle))
			Expect(seq.Current()).To(BeNil())
		})
	})

	Context("with custom timing", func() {
		It("uses the configured delays", func() {
			seq = sequencer.New(loop, view, sequencer.WithTiming(sequencer.Timing{
				MapStep:  10 * ms,
				StageGap: 20 * ms,
				ChipStep: 5 * ms,
			}))
			seq.Run("a b a")
			loop.Drain()

			Expect(view.lastAt("map")).To(Equal(30 * ms))
			Expect(view.firstAt("bucket")).To(Equal(50 * ms))
			Expect(view.lastAt("bucket-chip")).To(Equal(55 * ms))
			Expect(view.firstAt("stage:reducing")).To(Equal(75 * ms))
			Expect(view.lastAt("reduce")).To(Equal(80 * ms))
			Expect(view.firstAt("stage:done")).To(Equal(100 * ms))
		})
	})
})
