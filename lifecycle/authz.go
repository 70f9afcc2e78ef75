package lifecycle

import "github.com/goodjobguy1234/LendItApi/apperr"

// Gate decides whether a caller may act on a record owned by someone else.
// Denial is always an explicit Unauthorized, never a silent no-op.
type Gate struct{}

func (Gate) Authorize(callerID, ownerID string, msg string) error {
	if callerID != ownerID {
		return apperr.Unauthorized(msg)
	}
	return nil
}
