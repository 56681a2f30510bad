package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrInvalidQuarterLabel = goerr.New("invalid fiscal quarter label")
	ErrInvalidPeriod       = goerr.New("invalid reporting period")
	ErrSnapshotNotFound    = goerr.New("issue snapshot not found")
)
