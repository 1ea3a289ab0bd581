package screen

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition  = errors.New("invalid screen transition")
	ErrNoUpgradesSelected = errors.New("select at least one upgrade first")
)

// State is one of the four linear stages of a game
type State int

const (
	Start State = iota
	PropertyReview
	Planning
	Results
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case PropertyReview:
		return "property"
	case Planning:
		return "planning"
	case Results:
		return "results"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Controller tracks the active screen. It holds no business state.
type Controller struct {
	current State
}

func NewController() *Controller {
	return &Controller{current: Start}
}

func (c *Controller) Current() State {
	return c.current
}

// Next moves one stage forward. Leaving planning requires at least one
// selected upgrade; results is the last stage.
func (c *Controller) Next(selectedUpgrades int) error {
	switch c.current {
	case Start, PropertyReview:
		c.current++
		return nil
	case Planning:
		if selectedUpgrades == 0 {
			return ErrNoUpgradesSelected
		}
		c.current = Results
		return nil
	default:
		return fmt.Errorf("%w: no stage after %s", ErrInvalidTransition, c.current)
	}
}

// Back moves one stage backward. From results this is "adjust plan".
func (c *Controller) Back() error {
	if c.current == Start {
		return fmt.Errorf("%w: no stage before %s", ErrInvalidTransition, c.current)
	}
	c.current--
	return nil
}

// PlayAgain returns to the start screen from results
func (c *Controller) PlayAgain() error {
	if c.current != Results {
		return fmt.Errorf("%w: play again from %s", ErrInvalidTransition, c.current)
	}
	c.current = Start
	return nil
}

// Expect fails unless the controller is on the given screen
func (c *Controller) Expect(s State) error {
	if c.current != s {
		return fmt.Errorf("%w: on %s, want %s", ErrInvalidTransition, c.current, s)
	}
	return nil
}
