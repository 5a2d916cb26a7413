package booking

import (
	"context"
	"errors"

	"github.com/Omarzahran17/gym-flow-sub000/internal/calendar"
)

var (
	ErrInvalidGroupBy = errors.New("group_by must be day or class")
	ErrInvalidRange   = errors.New("from must not be after to")
)

// defaultReportDays is the window used when from is omitted.
const defaultReportDays = 30

// Report counts confirmed bookings in [from, to] grouped by booking date or
// by class. to defaults to today and from to the 30 days before it.
func (s *service) Report(ctx context.Context, from, to, groupBy string) (*Report, error) {
	end := s.today()
	if to != "" {
		d, err := calendar.Parse(to)
		if err != nil {
			return nil, err
		}
		end = d
	}

	start := end.AddDate(0, 0, -defaultReportDays)
	if from != "" {
		d, err := calendar.Parse(from)
		if err != nil {
			return nil, err
		}
		start = d
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	if groupBy == "" {
		groupBy = GroupByDay
	}

	var (
		rows []ReportRow
		err  error
	)
	fromStr, toStr := calendar.Format(start), calendar.Format(end)
	switch groupBy {
	case GroupByDay:
		rows, err = s.repo.CountByDay(ctx, fromStr, toStr)
	case GroupByClass:
		rows, err = s.repo.CountByClass(ctx, fromStr, toStr)
	default:
		return nil, ErrInvalidGroupBy
	}
	if err != nil {
		return nil, err
	}

	report := &Report{From: fromStr, To: toStr, GroupBy: groupBy, Rows: rows}
	for _, r := range rows {
		report.Total += r.Count
	}
	return report, nil
}
