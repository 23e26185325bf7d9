package environment

import "time"

// UtcTimestamp is the timestamp type stamped onto every transition and
// every runtime output field. It is always produced by a pkg/clock.Clock,
// never by calling time.Now() directly, so lifecycle tests can fix or
// advance it deterministically.
type UtcTimestamp = time.Time
