package student

import (
	"reflect"
	"testing"
)

func attendance(days int, present int) []AttendanceRecord {
	recs := make([]AttendanceRecord, 0, days)
	for i := 0; i < days; i++ {
		recs = append(recs, AttendanceRecord{
			Day:     "2026-01-" + []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10"}[i],
			Present: i < present,
		})
	}
	return recs
}

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name    string
		records []AttendanceRecord
		want    int
	}{
		{name: "nil records", records: nil, want: 0},
		{name: "empty records", records: []AttendanceRecord{}, want: 0},
		{name: "all present", records: attendance(10, 10), want: 100},
		{name: "all absent", records: attendance(10, 0), want: 0},
		{name: "7 of 10", records: attendance(10, 7), want: 70},
		{name: "rounding up", records: attendance(3, 2), want: 67},
		{name: "rounding down", records: attendance(3, 1), want: 33},
		{
			name: "invalid dates filtered",
			records: []AttendanceRecord{
				{Day: "2026-01-01", Present: true},
				{Day: "not-a-date", Present: false},
				{Day: "", Present: false},
				{Day: "2026-01-02", Present: false},
			},
			want: 50,
		},
		{
			name: "legacy timestamp dates accepted",
			records: []AttendanceRecord{
				{Day: "2026-01-01T09:00:00Z", Present: true},
				{Day: "2026-01-02", Present: false},
			},
			want: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttendancePercentage(tt.records); got != tt.want {
				t.Errorf("AttendancePercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMockTestPassPercentage(t *testing.T) {
	tests := []struct {
		name      string
		scores    []MockScore
		threshold int
		want      int
	}{
		{name: "no scores", scores: nil, threshold: 6, want: 0},
		{
			name:      "3 of 4 pass",
			scores:    []MockScore{{Score: 8}, {Score: 6}, {Score: 7}, {Score: 4}},
			threshold: 6,
			want:      75,
		},
		{
			name:      "threshold is inclusive",
			scores:    []MockScore{{Score: 6}},
			threshold: 6,
			want:      100,
		},
		{
			name:      "passing marks override",
			scores:    []MockScore{{Score: 40, TotalMarks: 100, PassingMarks: 50}, {Score: 60, TotalMarks: 100, PassingMarks: 50}},
			threshold: 6,
			want:      50,
		},
		{
			name:      "mixed views",
			scores:    []MockScore{{Score: 7}, {Score: 30, TotalMarks: 100, PassingMarks: 35}},
			threshold: 6,
			want:      50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MockTestPassPercentage(tt.scores, tt.threshold); got != tt.want {
				t.Errorf("MockTestPassPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverallPercentage(t *testing.T) {
	tests := []struct {
		name                string
		attendancePct, mock int
		want                int
	}{
		{name: "both zero", want: 0},
		{name: "both full", attendancePct: 100, mock: 100, want: 100},
		{name: "70 and 75", attendancePct: 70, mock: 75, want: 73},
		{name: "rounds half up", attendancePct: 70, mock: 75, want: 73},
		{name: "no mock scores drags down", attendancePct: 100, mock: 0, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallPercentage(tt.attendancePct, tt.mock); got != tt.want {
				t.Errorf("OverallPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		pct  int
		want Grade
	}{
		{pct: 100, want: GradeAPlus},
		{pct: 90, want: GradeAPlus},
		{pct: 89, want: GradeA},
		{pct: 80, want: GradeA},
		{pct: 79, want: GradeBPlus},
		{pct: 73, want: GradeBPlus},
		{pct: 70, want: GradeBPlus},
		{pct: 69, want: GradeB},
		{pct: 60, want: GradeB},
		{pct: 59, want: GradeC},
		{pct: 50, want: GradeC},
		{pct: 49, want: GradeF},
		{pct: 0, want: GradeF},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.pct); got != tt.want {
			t.Errorf("LetterGrade(%d) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestMonthlyAttendanceBuckets(t *testing.T) {
	records := []AttendanceRecord{
		{Day: "2026-02-02", Present: true},
		{Day: "2026-01-05", Present: true},
		{Day: "2026-01-06", Present: false},
		{Day: "2025-12-20", Present: true},
		{Day: "garbage", Present: true},
		{Day: "2026-02-03", Present: false},
		{Day: "2026-02-04", Present: true},
	}

	want := []MonthlyBucket{
		{Month: "Dec 2025", Present: 1, Absent: 0},
		{Month: "Jan 2026", Present: 1, Absent: 1},
		{Month: "Feb 2026", Present: 2, Absent: 1},
	}
	if got := MonthlyAttendanceBuckets(records); !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyAttendanceBuckets() = %+v, want %+v", got, want)
	}

	if got := MonthlyAttendanceBuckets(nil); len(got) != 0 {
		t.Errorf("MonthlyAttendanceBuckets(nil) = %+v, want empty", got)
	}
}
