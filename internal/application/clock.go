package application

import "time"

// Clock abstraction so freshness logic is testable
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, backed by time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
