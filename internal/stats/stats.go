// Package stats holds the dashboard aggregations. Everything here is pure and
// works on rows already loaded from the store.
package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"classroom-service/internal/domain"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "January 2006"
)

// Percent returns round-half-up of 100*raw/max in whole points, or 0 when max is not positive.
func Percent(raw, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Floor(100*raw/max + 0.5))
}

type LanguagePercent struct {
	Language string
	Percent  int
}

// CategoryRow renders as {"category": ..., "<language>": percent, ...}.
type CategoryRow struct {
	Category  string
	Languages []LanguagePercent
}

func (r CategoryRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"category":`)
	name, err := json.Marshal(r.Category)
	if err != nil {
		return nil, err
	}
	buf.Write(name)
	for _, lp := range r.Languages {
		if lp.Language == "category" {
			continue
		}
		key, err := json.Marshal(lp.Language)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(lp.Percent))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type totals struct{ raw, max float64 }

// CategoryPercentages groups scores by category then language, in first-seen order.
func CategoryPercentages(scores []domain.AssessmentScore) []CategoryRow {
	var categories []string
	var languages = map[string][]string{}
	sums := map[[2]string]*totals{}

	for _, s := range scores {
		if _, ok := languages[s.Category]; !ok {
			categories = append(categories, s.Category)
			languages[s.Category] = nil
		}
		key := [2]string{s.Category, s.Language}
		t, ok := sums[key]
		if !ok {
			t = &totals{}
			sums[key] = t
			languages[s.Category] = append(languages[s.Category], s.Language)
		}
		t.raw += s.RawScore
		t.max += s.MaxScore
	}

	rows := make([]CategoryRow, 0, len(categories))
	for _, c := range categories {
		row := CategoryRow{Category: c}
		for _, lang := range languages[c] {
			t := sums[[2]string{c, lang}]
			row.Languages = append(row.Languages, LanguagePercent{Language: lang, Percent: Percent(t.raw, t.max)})
		}
		rows = append(rows, row)
	}
	return rows
}

// ScorePercent is the overall percentage across a set of scores.
func ScorePercent(scores []domain.AssessmentScore) int {
	var t totals
	for _, s := range scores {
		t.raw += s.RawScore
		t.max += s.MaxScore
	}
	return Percent(t.raw, t.max)
}

// AttendancePercent counts P against P+A. Holidays are ignored.
func AttendancePercent(entries []domain.AttendanceEntry) int {
	present, absent := 0, 0
	for _, e := range entries {
		switch e.Status {
		case domain.StatusPresent:
			present++
		case domain.StatusAbsent:
			absent++
		}
	}
	return Percent(float64(present), float64(present+absent))
}

type StudentPercent struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// StudentPercentages returns one row per student, in roster order.
func StudentPercentages(students []domain.Student, entries []domain.AttendanceEntry) []StudentPercent {
	byStudent := make(map[string][]domain.AttendanceEntry, len(students))
	for _, e := range entries {
		byStudent[e.StudentID] = append(byStudent[e.StudentID], e)
	}
	out := make([]StudentPercent, 0, len(students))
	for _, s := range students {
		out = append(out, StudentPercent{Name: s.Name, Percent: AttendancePercent(byStudent[s.ID])})
	}
	return out
}

type DayCount struct {
	Day     string `json:"day"`
	Present int    `json:"present"`
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// WeekRange returns the inclusive seven-day window starting at weekStart.
func WeekRange(weekStart string) (string, string, error) {
	start, err := time.Parse(DateLayout, weekStart)
	if err != nil {
		return "", "", domain.Invalid("week_start must be YYYY-MM-DD")
	}
	return start.Format(DateLayout), start.AddDate(0, 0, 6).Format(DateLayout), nil
}

// WeeklyPresent counts P entries per weekday, Monday to Friday.
func WeeklyPresent(entries []domain.AttendanceEntry) []DayCount {
	counts := map[time.Weekday]int{}
	for _, e := range entries {
		if e.Status != domain.StatusPresent {
			continue
		}
		d, err := time.Parse(DateLayout, e.Date)
		if err != nil {
			continue
		}
		counts[d.Weekday()]++
	}
	out := make([]DayCount, 0, len(weekdays))
	for _, wd := range weekdays {
		out = append(out, DayCount{Day: wd.String()[:3], Present: counts[wd]})
	}
	return out
}

type DailyCount struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Holiday int `json:"holiday"`
}

func Daily(entries []domain.AttendanceEntry) DailyCount {
	var c DailyCount
	for _, e := range entries {
		switch e.Status {
		case domain.StatusPresent:
			c.Present++
		case domain.StatusAbsent:
			c.Absent++
		case domain.StatusHoliday:
			c.Holiday++
		}
	}
	return c
}

// MonthDays lists every date of a month label such as "June 2025".
func MonthDays(month string) ([]string, error) {
	first, err := time.Parse(MonthLayout, month)
	if err != nil {
		return nil, domain.Invalid("month must look like %q", "June 2025")
	}
	var days []string
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

// MonthLabel formats a date as the month label used across the store.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}

// HolidayGap is a (student, date) pair that has no attendance row yet.
type HolidayGap struct {
	StudentID string
	GroupID   string
	Country   string
	Date      string
}

// MissingDays returns the pairs not present in existing, keyed by student id then date.
func MissingDays(students []domain.Student, days []string, existing map[string]map[string]bool) []HolidayGap {
	var gaps []HolidayGap
	for _, s := range students {
		have := existing[s.ID]
		for _, d := range days {
			if have[d] {
				continue
			}
			gaps = append(gaps, HolidayGap{StudentID: s.ID, GroupID: s.GroupID, Country: s.Country, Date: d})
		}
	}
	return gaps
}
