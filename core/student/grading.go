package student

import (
	"math"
	"sort"
	"time"
)

// Pure reporting functions. They are total: missing inputs count as empty,
// malformed dates are filtered out, and results are always integers in [0,100].
// Safe to call concurrently.

const dateLayout = "2006-01-02"

// Grade is a letter grade derived from an overall percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
)

// MonthlyBucket aggregates attendance per calendar month; for trend reporting
// only, not for grading.
type MonthlyBucket struct {
	Month   string `json:"month"` // e.g. "Jan 2006"
	Present int    `json:"present_count"`
	Absent  int    `json:"absent_count"`
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

// parseDay accepts the canonical day layout and the RFC3339 timestamps some
// legacy records were imported with.
func parseDay(day string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, day); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, day); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// validAttendanceRecords filters out records whose date does not parse,
// without aborting the computation for the rest.
func validAttendanceRecords(records []AttendanceRecord) []AttendanceRecord {
	valid := make([]AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := parseDay(rec.Day); ok {
			valid = append(valid, rec)
		}
	}
	return valid
}

// AttendancePercentage returns the rounded share of valid records marked present.
// An empty (or nil) record set yields 0.
func AttendancePercentage(records []AttendanceRecord) int {
	valid := validAttendanceRecords(records)
	var present int
	for _, rec := range valid {
		if rec.Present {
			present++
		}
	}
	return percentage(present, len(valid))
}

// MockTestPassPercentage returns the rounded share of passed mock tests.
// A test passes when its score reaches passThreshold; a per-test PassingMarks
// overrides the threshold (marks-based view). Empty input yields 0.
func MockTestPassPercentage(scores []MockScore, passThreshold int) int {
	var passed int
	for _, sc := range scores {
		threshold := passThreshold
		if sc.PassingMarks > 0 {
			threshold = sc.PassingMarks
		}
		if sc.Score >= threshold {
			passed++
		}
	}
	return percentage(passed, len(scores))
}

// OverallPercentage is the rounded mean of the two metrics.
// A student with no mock scores yet still averages against 0, which biases the
// overall score downward for new students; kept as-is pending a product call.
func OverallPercentage(attendancePct, mockPct int) int {
	return int(math.Round(float64(attendancePct+mockPct) / 2))
}

// LetterGrade maps a percentage to a letter grade; band lower bounds are inclusive.
func LetterGrade(pct int) Grade {
	switch {
	case pct >= 90:
		return GradeAPlus
	case pct >= 80:
		return GradeA
	case pct >= 70:
		return GradeBPlus
	case pct >= 60:
		return GradeB
	case pct >= 50:
		return GradeC
	default:
		return GradeF
	}
}

// MonthlyAttendanceBuckets groups records by calendar month, oldest first.
// Records with unparseable dates are skipped.
func MonthlyAttendanceBuckets(records []AttendanceRecord) []MonthlyBucket {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthlyBucket)
	keys := make([]key, 0)

	for _, rec := range records {
		day, ok := parseDay(rec.Day)
		if !ok {
			continue
		}
		k := key{day.Year(), day.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyBucket{Month: day.Format("Jan 2006")}
			buckets[k] = b
			keys = append(keys, k)
		}
		if rec.Present {
			b.Present++
		} else {
			b.Absent++
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]MonthlyBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}
