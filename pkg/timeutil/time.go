package timeutil

import "time"

// Now returns the current local wall-clock time.
// The accounting API compares request timestamps against local time, so
// this deliberately does not normalize to UTC.
func Now() time.Time {
	return time.Now()
}

// Timestamp formats t as YYYYMMDDHHmmss using t's own location.
// Example: 2024-12-10 10:40:49.553 -> "20241210104049"
func Timestamp(t time.Time) string {
	var buf [14]byte
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	putDigits(buf[0:4], year)
	putDigits(buf[4:6], int(month))
	putDigits(buf[6:8], day)
	putDigits(buf[8:10], hour)
	putDigits(buf[10:12], min)
	putDigits(buf[12:14], sec)

	return string(buf[:])
}

// Datestamp formats t as YYYYMMDD using t's own location
func Datestamp(t time.Time) string {
	var buf [8]byte
	year, month, day := t.Date()

	putDigits(buf[0:4], year)
	putDigits(buf[4:6], int(month))
	putDigits(buf[6:8], day)

	return string(buf[:])
}

// putDigits writes v right-aligned and zero padded into dst.
// Values that do not fit are truncated to their low-order digits; negative
// values are written as zero.
func putDigits(dst []byte, v int) {
	if v < 0 {
		v = 0
	}
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + v%10)
		v /= 10
	}
}
