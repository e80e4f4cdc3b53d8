package history

import (
	"time"
)

const (
	TrendLimit    = 20
	CalendarWeeks = 12
)

// BothPrograms marks a calendar day on which more than one program ran.
const BothPrograms = "both"

type TrendPoint struct {
	Weight float64
	Date   time.Time
	Bailed bool
	PR     bool
}

// BuildTrend returns up to TrendLimit set-1 weights of an exercise, oldest
// first. records must be newest first. Bailed sessions are kept; PR marks
// every point at the maximum weight.
func BuildTrend(records []Record, holdID, workoutType string) []TrendPoint {
	var points []TrendPoint
	for _, r := range records {
		if r.WorkoutType != workoutType {
			continue
		}
		h, ok := r.Hold(holdID)
		if !ok {
			continue
		}
		points = append(points, TrendPoint{Weight: h.Set1.Weight, Date: r.StartedAt, Bailed: r.Bailed})
		if len(points) == TrendLimit {
			break
		}
	}
	if len(points) == 0 {
		return nil
	}

	best := points[0].Weight
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	for _, p := range points {
		if p.Weight > best {
			best = p.Weight
		}
	}
	for i := range points {
		points[i].PR = points[i].Weight == best
	}
	return points
}

type CalendarDay struct {
	Date time.Time
	// WorkoutType is the program trained that day, BothPrograms, or empty.
	WorkoutType string
}

// BuildCalendar returns CalendarWeeks weeks of days ending with the week
// containing now. Weeks start on Monday; days are in now's location.
func BuildCalendar(records []Record, now time.Time) [][]CalendarDay {
	loc := now.Location()
	byDay := make(map[string]map[string]bool)
	for _, r := range records {
		key := r.StartedAt.In(loc).Format(time.DateOnly)
		if byDay[key] == nil {
			byDay[key] = make(map[string]bool)
		}
		byDay[key][r.WorkoutType] = true
	}

	weekday := int(now.Weekday()+6) % 7 // Monday = 0
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -weekday-(CalendarWeeks-1)*7)

	weeks := make([][]CalendarDay, CalendarWeeks)
	for w := range weeks {
		week := make([]CalendarDay, 7)
		for d := range week {
			date := start.AddDate(0, 0, w*7+d)
			day := CalendarDay{Date: date}
			types := byDay[date.Format(time.DateOnly)]
			switch len(types) {
			case 0:
			case 1:
				for t := range types {
					day.WorkoutType = t
				}
			default:
				day.WorkoutType = BothPrograms
			}
			week[d] = day
		}
		weeks[w] = week
	}
	return weeks
}

// CalendarMonthLabels returns one label per week: the abbreviated month of
// its Monday when the month changes, otherwise "".
func CalendarMonthLabels(weeks [][]CalendarDay) []string {
	labels := make([]string, len(weeks))
	last := time.Month(0)
	for i, week := range weeks {
		if len(week) == 0 {
			continue
		}
		m := week[0].Date.Month()
		if m != last {
			labels[i] = m.String()[:3]
			last = m
		}
	}
	return labels
}

type Stats struct {
	TotalCompleted int
}

func ComputeStats(records []Record) Stats {
	var s Stats
	for _, r := range records {
		if !r.Bailed {
			s.TotalCompleted++
		}
	}
	return s
}
