// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import "errors"

var ErrUnknownEvent = errors.New("unknown event")
