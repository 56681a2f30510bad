package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/types"
)

// The fiscal year begins in April. Q1 covers April-June, Q2 July-September,
// Q3 October-December, and Q4 January-March of the following calendar year
// while remaining in the same fiscal year as Q3.
const fiscalYearStartMonth = 4

var quarterLabelPattern = regexp.MustCompile(`^@?FY(\d{2})Q([1-4])$`)

// DateToFiscalQuarter returns the fiscal-quarter label containing the date,
// in canonical form such as "FY25Q2".
func DateToFiscalQuarter(t time.Time) types.QuarterLabel {
	y, m, _ := t.UTC().Date()
	var fy, q int
	if int(m) >= fiscalYearStartMonth {
		fy = y
		q = (int(m)-fiscalYearStartMonth)/3 + 1
	} else {
		fy = y - 1
		q = 4
	}
	return types.QuarterLabel(fmt.Sprintf("FY%02dQ%d", fy%100, q))
}

// OverlappingQuarters returns the distinct fiscal-quarter labels touched by
// the period's months, sorted lexicographically (chronological, given the
// fixed-width label format). The walk starts at the first day of the start
// month, so a period inside a single month yields exactly one label.
func OverlappingQuarters(p Period) []types.QuarterLabel {
	seen := make(map[types.QuarterLabel]struct{})
	var labels []types.QuarterLabel

	cursor := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(p.End) {
		label := DateToFiscalQuarter(cursor)
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// QuarterDateRange maps a fiscal-quarter label to the first and last
// calendar day of its 3-month span. A label not matching the expected
// 2-digit-year / quarter pattern fails with ErrInvalidQuarterLabel; this is
// the only operation in the core that is not total, because a malformed
// label indicates a caller bug rather than a data condition to tolerate.
func QuarterDateRange(label types.QuarterLabel) (Period, error) {
	m := quarterLabelPattern.FindStringSubmatch(label.String())
	if m == nil {
		return Period{}, goerr.Wrap(ErrInvalidQuarterLabel, "label does not match FYnnQn",
			goerr.V("label", label))
	}

	fyShort, _ := strconv.Atoi(m[1])
	q, _ := strconv.Atoi(m[2])
	fiscalYear := 2000 + fyShort

	startYear := fiscalYear
	startMonth := time.Month(fiscalYearStartMonth + (q-1)*3)
	if q == 4 {
		startYear = fiscalYear + 1
		startMonth = time.January
	}

	start := time.Date(startYear, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return Period{Start: start, End: end}, nil
}
