// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrInvalidStep       = errors.New("invalid step")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrUnknownToken      = errors.New("unknown token")
	ErrUnknownPool       = errors.New("unknown pool")
	ErrRequirementFailed = errors.New("requirement failed")
)
