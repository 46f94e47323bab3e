package comparer

import "time"

func hour(h int) time.Time {
	return time.Date(2020, 1, 1, h, 0, 0, 0, time.UTC)
}
