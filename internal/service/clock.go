package service

import "time"

// Clock supplies the current instant. Injected so tests can pin time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
