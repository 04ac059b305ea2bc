package application

import (
	"fmt"
	"time"
)

// GenerateApplicationID produces an identifier like APP-20260901-3842. The
// suffix is the sub-second timestamp modulo 10000, so two submissions inside
// the same tenth of a millisecond can collide; the unique index on
// member.application_id turns that rare case into a create error instead of
// a silent duplicate.
func GenerateApplicationID() string {
	now := time.Now()
	suffix := (now.Nanosecond() / 100000) % 10000
	return fmt.Sprintf("APP-%s-%04d", now.Format("20060102"), suffix)
}
