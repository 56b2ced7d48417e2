// Package sequencer drives the Map → Shuffle → Reduce animation.
//
// A [Sequencer] walks one [Session] through the stages
// Idle → Mapping → Shuffling → Reducing → Done, pushing chips and buckets
// into a [View] on a [Scheduler]'s timers.
//
// # Scheduling
//
// [Loop] is a single-threaded, virtual-time scheduler. Callbacks only run
// inside [Loop.Advance] or [Loop.Drain], on the caller's goroutine, so a
// Sequencer and its View need no locking as long as they are driven from
// one goroutine (a bubbletea Update, a test, a CLI command).
//
// # Generations
//
// Every Run and Reset bumps the sequencer's generation. Callbacks capture the
// generation of the session that scheduled them and are dropped if it is no
// longer current, so a Reset leaves no stray updates behind.
//
// # Barriers
//
// Shuffle and Reduce schedule their chips concurrently. The next stage starts
// only after every chip of the current stage has been appended, followed by
// the configured stage gap.
package sequencer
