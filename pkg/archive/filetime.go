package archive

import "time"

// fileTimeEpochOffset is the number of 100-ns ticks between 1601-01-01 UTC
// and 1970-01-01 UTC (the UNIX epoch).
const fileTimeEpochOffset uint64 = 116_444_736_000_000_000

// ticksPerSecond is the number of 100-ns ticks in one second.
const ticksPerSecond uint64 = 10_000_000

// ToFileTime converts a time.Time to the 64-bit 100-ns-tick-since-1601
// encoding used by the header and footer timestamps.
func ToFileTime(t time.Time) uint64 {
	return uint64(t.Unix())*ticksPerSecond + fileTimeEpochOffset
}

// NowInFileTime returns the current wall-clock time in file-time encoding.
func NowInFileTime() uint64 {
	return ToFileTime(time.Now())
}

var earliestValidTime = ToFileTime(time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC))

// EarliestValidTime is the file-time encoding of 2018-01-01T00:00:00Z, the
// floor below which a footer timestamp is considered corrupt.
func EarliestValidTime() uint64 {
	return earliestValidTime
}
