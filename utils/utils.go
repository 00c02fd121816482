package utils

const SecondsPerDay = 24 * 3600

func DaysToSeconds(days int) int64 {
	return int64(days) * SecondsPerDay
}

// ceil((end - start) / step), never negative
func SlotCount(start, end, step int64) int {
	if step <= 0 || end <= start {
		return 0
	}
	return int((end - start + step - 1) / step)
}
