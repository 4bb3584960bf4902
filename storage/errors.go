package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with the same id already exists")
var ErrVoteAlreadyExists = errors.New("vote already exists for this position and period")
