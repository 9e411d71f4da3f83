package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/academy/core/student"
	"github.com/trezcool/academy/services/email"
)

func TestStudentAPI_create(t *testing.T) {
	app := setup(t)

	b := createBatch(t, "Morning Batch")

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed email",
			body:     []byte(`{"name": "Awe Lol", "email": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unassigned registration",
			body:     []byte(`{"name": "Awe Lol", "email": "awe@test.cd"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Awe Lol", "email": "awe@test.cd"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown batch",
			body:     []byte(`{"name": "Mdr Lol", "email": "mdr@test.cd", "batch_id": "nope"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "assigned registration",
			body:     []byte(`{"name": "Hihi Lol", "email": "hihi@test.cd", "batch_id": "` + b.ID + `"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/students", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestStudentAPI_create_notificationOutcome(t *testing.T) {
	app := setup(t)

	b := createBatch(t, "Morning Batch")

	t.Run("unassigned gets a pending notice", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students", []byte(`{"name": "Awe Lol", "email": "awe@test.cd"}`))
		app.ServeHTTP(rec, req)

		var res student.StudentResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.RollNumber != student.Unassigned {
			t.Errorf("RollNumber = %v, want %v", res.RollNumber, student.Unassigned)
		}
		if !res.NotificationSent || res.Notification.Kind != student.RegistrationPending {
			t.Errorf("Notification = %+v, want sent %v", res.Notification, student.RegistrationPending)
		}
	})

	t.Run("assigned gets credentials", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students", []byte(`{"name": "Mdr Lol", "email": "mdr@test.cd", "batch_id": "`+b.ID+`"}`))
		app.ServeHTTP(rec, req)

		var res student.StudentResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.RollNumber == student.Unassigned || res.RollNumber == "" {
			t.Errorf("RollNumber = %v, want resolved", res.RollNumber)
		}
		if !res.NotificationSent || res.Notification.Kind != student.BatchAssigned {
			t.Errorf("Notification = %+v, want sent %v", res.Notification, student.BatchAssigned)
		}
	})

	if got := len(emailsvc.SentMessages); got != 2 {
		t.Errorf("len(SentMessages) = %d, want 2", got)
	}
}

func TestStudentAPI_retrieveQueryDelete(t *testing.T) {
	app := setup(t)

	res := createStudent(t, "Awe Lol", "awe@test.cd", "")

	// query
	req, rec := newRequest(http.MethodGet, "/v1/students")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)
	var students []student.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(students) != 1 || students[0].ID != res.ID {
		t.Errorf("students = %+v, want just %v", students, res.ID)
	}

	// retrieve
	req, rec = newRequest(http.MethodGet, "/v1/students/"+res.ID)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	req, rec = newRequest(http.MethodGet, "/v1/students/nope")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, rec)

	// delete
	req, rec = newRequest(http.MethodDelete, "/v1/students/"+res.ID)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, rec)

	req, rec = newRequest(http.MethodGet, "/v1/students/"+res.ID)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, rec)
}

func TestStudentAPI_update(t *testing.T) {
	app := setup(t)

	b := createBatch(t, "Morning Batch")
	res := createStudent(t, "Awe Lol", "awe@test.cd", "")
	emailsvc.ResetSentMessages()

	tests := []httpTest{
		{
			name:     "not found",
			path:     "/v1/students/nope",
			body:     []byte(`{"name": "Awe Lol Jr"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "malformed email",
			path:     "/v1/students/" + res.ID,
			body:     []byte(`{"email": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown batch",
			path:     "/v1/students/" + res.ID,
			body:     []byte(`{"batch_id": "nope"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "assignment",
			path:     "/v1/students/" + res.ID,
			body:     []byte(`{"batch_id": "` + b.ID + `"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPut, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the assignment run resolved identity and notified
	var updated student.StudentResult
	req, rec := newRequest(http.MethodGet, "/v1/students/"+res.ID)
	app.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &updated.Student); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if updated.BatchID != b.ID {
		t.Errorf("BatchID = %v, want %v", updated.BatchID, b.ID)
	}
	if updated.RollNumber == student.Unassigned || updated.RollNumber == "" {
		t.Errorf("RollNumber = %v, want resolved", updated.RollNumber)
	}
	if got := len(emailsvc.SentMessages); got != 1 {
		t.Errorf("len(SentMessages) = %d, want 1", got)
	}
}

func TestStudentAPI_attendanceAndScores(t *testing.T) {
	app := setup(t)

	res := createStudent(t, "Awe Lol", "awe@test.cd", "")

	tests := []httpTest{
		{
			name:     "attendance: missing date",
			method:   http.MethodPost,
			path:     "/v1/students/" + res.ID + "/attendance",
			body:     []byte(`{"present": true}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "attendance: bad date",
			method:   http.MethodPost,
			path:     "/v1/students/" + res.ID + "/attendance",
			body:     []byte(`{"date": "lol", "present": true}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "attendance: unknown student",
			method:   http.MethodPost,
			path:     "/v1/students/nope/attendance",
			body:     []byte(`{"date": "2026-01-05", "present": true}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "attendance: ok",
			method:   http.MethodPost,
			path:     "/v1/students/" + res.ID + "/attendance",
			body:     []byte(`{"date": "2026-01-05", "present": true}`),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "scores: missing test",
			method:   http.MethodPut,
			path:     "/v1/students/" + res.ID + "/mock-scores",
			body:     []byte(`{"score": 7}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "scores: above score-based max",
			method:   http.MethodPut,
			path:     "/v1/students/" + res.ID + "/mock-scores",
			body:     []byte(`{"test_id": "t1", "score": 11}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "scores: ok",
			method:   http.MethodPut,
			path:     "/v1/students/" + res.ID + "/mock-scores",
			body:     []byte(`{"test_id": "t1", "score": 7}`),
			wantCode: http.StatusNoContent,
		},
		{
			name:     "scores: marks-based ok",
			method:   http.MethodPut,
			path:     "/v1/students/" + res.ID + "/mock-scores",
			body:     []byte(`{"test_id": "t2", "score": 40, "total_marks": 100, "passing_marks": 35}`),
			wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// report reflects the captured records
	req, rec := newRequest(http.MethodGet, "/v1/students/"+res.ID+"/report")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

	var report student.ProgressReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if report.AttendancePct != 100 {
		t.Errorf("AttendancePct = %v, want 100", report.AttendancePct)
	}
	if report.MockPct != 100 {
		t.Errorf("MockPct = %v, want 100", report.MockPct)
	}
	if report.OverallPct != 100 || report.Grade != student.GradeAPlus {
		t.Errorf("OverallPct = %v, Grade = %v; want 100, %v", report.OverallPct, report.Grade, student.GradeAPlus)
	}
}
