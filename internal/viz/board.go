package viz

import (
	"github.com/san-kum/mrviz/internal/mapreduce"
	"github.com/san-kum/mrviz/internal/sequencer"
)

// Bucket groups the shuffle chips that share a key.
type Bucket struct {
	Key   mapreduce.Token
	Chips []sequencer.Chip
}

// Board is the sequencer.View backing the player: the three containers plus
// the stage label and run trigger state.
type Board struct {
	Stage      sequencer.Stage
	RunEnabled bool
	MapChips   []sequencer.Chip
	Buckets    []*Bucket
	Reduced    []sequencer.Chip

	index map[mapreduce.Token]*Bucket
}

func NewBoard() *Board {
	return &Board{
		Stage:      sequencer.StageIdle,
		RunEnabled: true,
		index:      make(map[mapreduce.Token]*Bucket),
	}
}

func (b *Board) Clear() {
	b.MapChips = b.MapChips[:0]
	b.Buckets = b.Buckets[:0]
	b.Reduced = b.Reduced[:0]
	b.index = make(map[mapreduce.Token]*Bucket)
}

func (b *Board) SetStage(s sequencer.Stage)     { b.Stage = s }
func (b *Board) SetRunEnabled(enabled bool)     { b.RunEnabled = enabled }
func (b *Board) AppendMapChip(c sequencer.Chip) { b.MapChips = append(b.MapChips, c) }

func (b *Board) AppendBucket(key mapreduce.Token) {
	bk := &Bucket{Key: key}
	b.Buckets = append(b.Buckets, bk)
	b.index[key] = bk
}

func (b *Board) AppendBucketChip(key mapreduce.Token, c sequencer.Chip) {
	bk, ok := b.index[key]
	if !ok {
		return
	}
	bk.Chips = append(bk.Chips, c)
}

func (b *Board) AppendReduceChip(c sequencer.Chip) { b.Reduced = append(b.Reduced, c) }

// Empty reports whether all three containers are empty.
func (b *Board) Empty() bool {
	return len(b.MapChips) == 0 && len(b.Buckets) == 0 && len(b.Reduced) == 0
}
