// Package stats summarises the dream journal over the last week.
package stats

import (
	"context"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// Days is the length of the window.
const Days = 7

// DreamFetcher is satisfied by the dream repository.
type DreamFetcher interface {
	Fetch(ctx context.Context, where func(core.Dream) bool, sort ...core.SortBy) ([]core.Dream, error)
}

// Day holds the counts for one calendar day.
type Day struct {
	Date      time.Time `json:"date"`
	Lucid     int       `json:"lucid"`
	Normal    int       `json:"normal"`
	Nightmare int       `json:"nightmare"`
}

// Total is the number of dreams of any type on the day.
func (d Day) Total() int { return d.Lucid + d.Normal + d.Nightmare }

func (d *Day) add(t core.DreamType) {
	switch t {
	case core.Lucid:
		d.Lucid++
	case core.Normal:
		d.Normal++
	case core.Nightmare:
		d.Nightmare++
	}
}

// Summary is the weekly breakdown. Days runs oldest first and ends today.
type Summary struct {
	Days      []Day `json:"days"`
	Lucid     int   `json:"total_lucid"`
	Normal    int   `json:"total_normal"`
	Nightmare int   `json:"total_nightmare"`
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Weekly counts dreams per type for today and the six days before it, as
// seen in loc. Dreams outside those seven calendar days are not counted.
func Weekly(ctx context.Context, dreams DreamFetcher, now time.Time, loc *time.Location) (Summary, error) {
	if loc == nil {
		loc = time.Local
	}
	weekAgo := now.AddDate(0, 0, -Days)

	list, err := dreams.Fetch(ctx,
		func(d core.Dream) bool { return !d.Date.Before(weekAgo) },
		core.SortBy{Key: core.SortByDate, Descending: true},
	)
	if err != nil {
		return Summary{}, err
	}

	today := startOfDay(now, loc)
	days := make([]Day, Days)
	index := make(map[time.Time]int, Days)
	for i := range days {
		day := today.AddDate(0, 0, i-(Days-1))
		days[i].Date = day
		index[day] = i
	}

	var s Summary
	for _, d := range list {
		i, ok := index[startOfDay(d.Date, loc)]
		if !ok {
			continue
		}
		days[i].add(d.Type)
		switch d.Type {
		case core.Lucid:
			s.Lucid++
		case core.Normal:
			s.Normal++
		case core.Nightmare:
			s.Nightmare++
		}
	}
	s.Days = days
	return s, nil
}
