// Package transition drives view changes, either spring-animated or
// immediate. The strategy is chosen once at startup; state mutations
// always happen before the first frame so teardown never races a
// half-applied view.
package transition

import (
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
)

// FrameMsg asks the program to advance the active transition one frame.
type FrameMsg struct{}

const fps = 60

// Spring tuning for the sidebar split. Slightly underdamped so the
// motion reads as motion without visible bounce.
const (
	springFrequency = 7.0
	springDamping   = 0.9
)

// Strategy animates a single scalar (the sidebar split position)
// between values.
type Strategy interface {
	// Start begins a transition from the current value toward target.
	// Returns the first frame command, or nil when nothing animates.
	Start(from, target float64) tea.Cmd
	// Step advances one frame. Returns the follow-up frame command,
	// or nil once the transition has settled.
	Step() tea.Cmd
	// Value returns the current scalar.
	Value() float64
	// Active reports whether a transition is in flight.
	Active() bool
}

// frame schedules the next FrameMsg.
func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// Animated is the spring-driven strategy.
type Animated struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	active bool
}

// NewAnimated creates the spring-driven strategy.
func NewAnimated() *Animated {
	return &Animated{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
	}
}

func (a *Animated) Start(from, target float64) tea.Cmd {
	if from == target {
		a.pos = target
		a.active = false
		return nil
	}
	a.pos = from
	a.vel = 0
	a.target = target
	a.active = true
	return frame()
}

func (a *Animated) Step() tea.Cmd {
	if !a.active {
		return nil
	}

	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)

	// Snap once the spring has effectively settled
	if settled(a.pos, a.vel, a.target) {
		a.pos = a.target
		a.vel = 0
		a.active = false
		return nil
	}
	return frame()
}

func (a *Animated) Value() float64 { return a.pos }
func (a *Animated) Active() bool   { return a.active }

func settled(pos, vel, target float64) bool {
	d := pos - target
	if d < 0 {
		d = -d
	}
	v := vel
	if v < 0 {
		v = -v
	}
	return d < 0.05 && v < 0.05
}

// Immediate applies the target without frames.
type Immediate struct {
	pos float64
}

// NewImmediate creates the frameless strategy.
func NewImmediate() *Immediate {
	return &Immediate{}
}

func (i *Immediate) Start(from, target float64) tea.Cmd {
	i.pos = target
	return nil
}

func (i *Immediate) Step() tea.Cmd  { return nil }
func (i *Immediate) Value() float64 { return i.pos }
func (i *Immediate) Active() bool   { return false }

// Select picks the strategy for this run. Animation is skipped for dumb
// terminals, when the environment requests reduced motion, and when the
// user disabled it in config.
func Select(animationsDisabled bool) Strategy {
	if animationsDisabled {
		return NewImmediate()
	}
	if os.Getenv("TERM") == "dumb" {
		return NewImmediate()
	}
	if os.Getenv("REDUCE_MOTION") != "" || os.Getenv("NO_MOTION") != "" {
		return NewImmediate()
	}
	return NewAnimated()
}
