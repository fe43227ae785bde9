package appointment

import "time"

// DayCount is the number of appointments on one date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the administrative dashboard.
type Summary struct {
	TotalUsers        int        `json:"totalUsers"`
	TotalAppointments int        `json:"totalAppointments"`
	Upcoming          int        `json:"upcomingAppointments"`
	PerDay            []DayCount `json:"perDay"`
}

// Summarize aggregates appointments. PerDay keeps dates in first-seen order.
func Summarize(totalUsers int, appointments []Appointment, now time.Time) Summary {
	s := Summary{
		TotalUsers:        totalUsers,
		TotalAppointments: len(appointments),
		PerDay:            []DayCount{},
	}

	index := make(map[string]int, len(appointments))
	for _, a := range appointments {
		if a.Upcoming(now) {
			s.Upcoming++
		}
		if i, ok := index[a.Date]; ok {
			s.PerDay[i].Count++
			continue
		}
		index[a.Date] = len(s.PerDay)
		s.PerDay = append(s.PerDay, DayCount{Date: a.Date, Count: 1})
	}
	return s
}
