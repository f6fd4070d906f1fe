package world

import (
	"errors"
	"fmt"
)

// ErrInsufficient is matched by every InsufficientError via errors.Is.
var ErrInsufficient = errors.New("insufficient resource")

// ErrUnknownItem is returned when a shop choice names no gear.
var ErrUnknownItem = errors.New("unknown item")

// InsufficientError reports a resource the player does not have enough of.
type InsufficientError struct {
	Resource string
	Have     int
	Need     int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("not enough %s: have %d, need %d", e.Resource, e.Have, e.Need)
}

// Is makes errors.Is(err, ErrInsufficient) true.
func (e *InsufficientError) Is(target error) bool {
	return target == ErrInsufficient
}
