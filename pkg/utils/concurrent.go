package utils

import (
	"fmt"
	"runtime/debug"
)

func SafelyRun(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	f()
	return nil
}

func SafelyGo(f func(), errHandle func(err error)) {
	go func() {
		if err := SafelyRun(f); err != nil && errHandle != nil {
			errHandle(err)
		}
	}()
}
