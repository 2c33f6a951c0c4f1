package analysis

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrZeroDamage marks a player whose parsed damage total is zero; the
// boundary turns it into a message instead of an error response.
var ErrZeroDamage = errors.New("Player has 0 damage for this gate")

// NotFoundError reports a gate or player id that is not in the run.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// MalformedSkillRecordError reports a skill record whose damage or hit
// fields could not be parsed.
type MalformedSkillRecordError struct {
	SkillID int
	cause   error
}

func (e *MalformedSkillRecordError) Error() string {
	return fmt.Sprintf("malformed record for skill %d: %v", e.SkillID, e.cause)
}

func (e *MalformedSkillRecordError) Unwrap() error {
	return e.cause
}
