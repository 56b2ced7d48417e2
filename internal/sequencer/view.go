package sequencer

import (
	"fmt"

	"github.com/san-kum/mrviz/internal/mapreduce"
)

type Stage int

const (
	StageIdle Stage = iota
	StageMapping
	StageShuffling
	StageReducing
	StageDone
)

var stageNames = [...]string{"idle", "mapping", "shuffling", "reducing", "done"}

var stageLabels = [...]string{
	"—",
	"Map: emit ⟨word, 1⟩",
	"Shuffle/Sort: group by key",
	"Reduce: sum values per key",
	"Done ✅",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Label is the text shown next to "Stage:" while s is active.
func (s Stage) Label() string {
	if s < 0 || int(s) >= len(stageLabels) {
		return s.String()
	}
	return stageLabels[s]
}

// Chip is one rendered key/value unit.
type Chip struct {
	Key   mapreduce.Token
	Value int
}

func (c Chip) String() string {
	return fmt.Sprintf("%s:%d", c.Key, c.Value)
}

// View receives every visual update the sequencer makes. Clear empties the
// map, shuffle and reduce containers; it does not touch the stage label.
type View interface {
	Clear()
	SetStage(stage Stage)
	SetRunEnabled(enabled bool)
	AppendMapChip(chip Chip)
	AppendBucket(key mapreduce.Token)
	AppendBucketChip(key mapreduce.Token, chip Chip)
	AppendReduceChip(chip Chip)
}
