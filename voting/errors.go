package voting

import "errors"

var ErrUnauthenticated = errors.New("voter is not authenticated")
var ErrNoActiveElection = errors.New("no active election")
var ErrPeriodNotActive = errors.New("voting period is not active")
var ErrInvalidPosition = errors.New("position is invalid or not active")
var ErrInvalidCandidate = errors.New("candidate is invalid, not active, or belongs to another position")
var ErrDuplicateVote = errors.New("a vote was already cast for this position in this period")
var ErrVoteNotFound = errors.New("no vote cast for this position")
var ErrRetractionUnsupported = errors.New("the vote ledger does not support retracting votes")
