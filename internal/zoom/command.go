package zoom

import (
	logger "github.com/capture-tools/zoomd/internal/logger"
)

// CommandType identifies a discrete control command
type CommandType int

const (
	// CmdToggleZoom starts zooming in from idle, or zooming out otherwise
	CmdToggleZoom CommandType = iota
	// CmdToggleFollow flips cursor following without changing the mode
	CmdToggleFollow
	// CmdSetProfile activates a named profile
	CmdSetProfile
	// CmdSetMouseOverride pins the target to a fixed source-pixel point
	CmdSetMouseOverride
	// CmdClearMouseOverride returns targeting to the live cursor
	CmdClearMouseOverride
)

// String returns the string representation of a command type
func (t CommandType) String() string {
	switch t {
	case CmdToggleZoom:
		return "toggle_zoom"
	case CmdToggleFollow:
		return "toggle_follow"
	case CmdSetProfile:
		return "set_profile"
	case CmdSetMouseOverride:
		return "set_mouse_override"
	case CmdClearMouseOverride:
		return "clear_mouse_override"
	default:
		return "unknown"
	}
}

// Command is one control command. Profile is used by CmdSetProfile,
// X/Y by CmdSetMouseOverride (source pixel coordinates).
type Command struct {
	Type    CommandType
	Profile string
	X       float64
	Y       float64
}

// Queue is a bounded command queue. Commands arrive asynchronously from
// hotkeys and remote control; the tick loop drains the queue at tick
// start so no command is ever applied mid-advance.
type Queue struct {
	ch chan Command
}

// NewQueue creates a queue holding at most capacity pending commands
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{ch: make(chan Command, capacity)}
}

// Push enqueues a command. When the queue is full the command is dropped
// rather than blocking the producer.
func (q *Queue) Push(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		logger.Warn("command queue full, dropping command", "type", cmd.Type.String())
		return false
	}
}

// Drain removes and returns all pending commands in arrival order
func (q *Queue) Drain() []Command {
	var out []Command
	for {
		select {
		case cmd := <-q.ch:
			out = append(out, cmd)
		default:
			return out
		}
	}
}
