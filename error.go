// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rawhttp

import (
	"errors"
)

var (
	// ErrOverload is returned by AddConn when MaxLoad connections are already open.
	ErrOverload = errors.New("engine overload")

	// ErrEngineStopped .
	ErrEngineStopped = errors.New("engine stopped")
)
