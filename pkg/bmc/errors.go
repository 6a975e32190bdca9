package bmc

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means the controller could not be contacted even
	// after the session-cleared retry.
	ErrUnreachable = errors.New("controller unreachable")

	// ErrAuthRejected marks a credential or session token the controller
	// refused. The broker recovers from it by asking for a new password.
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrAuthExhausted means no valid password could be obtained: either
	// the interactive provider failed or the attempt bound was hit.
	ErrAuthExhausted = errors.New("unable to obtain valid credentials")

	// ErrTimedOut is reported when a job wait is cancelled by its context.
	ErrTimedOut = errors.New("timed out")

	ErrNoFreeSlot            = errors.New("all account slots in use")
	ErrInvalidRole           = errors.New("invalid account role")
	ErrSlotNotFound          = errors.New("account slot not found")
	ErrSlotInUse             = errors.New("account slot in use")
	ErrUnexpectedAccountType = errors.New("unexpected account type")
)

// A JobStateError is raised when polling a job returns a status code
// outside the expected in-progress/complete/missing set.
type JobStateError struct {
	Job    int
	Status int
	Data   []byte
}

func (e *JobStateError) Error() string {
	return fmt.Sprintf("job %d in unexpected state %d: %s", e.Job, e.Status, string(e.Data))
}
