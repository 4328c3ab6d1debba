package core

import (
	"errors"
)

var (
	// ErrBufferAllocation is returned when the driver refuses to allocate
	// GPU-visible buffer storage.
	ErrBufferAllocation = errors.New("buffer allocation failed")
)
