package appointment

import "time"

// DateLayout is the one display format used for appointment dates.
const DateLayout = "Monday, 2 January 2006"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
