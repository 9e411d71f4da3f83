package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/trezcool/academy/apps/api/echo"
	"github.com/trezcool/academy/core/student"
)

func TestAuthAPI_login(t *testing.T) {
	app := setup(t)

	b := createBatch(t, "Morning Batch")
	res := createStudent(t, "Awe Lol", "awe@test.cd", b.ID)
	pending := createStudent(t, "Mdr Lol", "mdr@test.cd", "")

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte("{}"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "nope@test.cd", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "awe@test.cd", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "no credentials issued yet",
			body:     []byte(`{"email": "mdr@test.cd", "password": "` + pending.ID + `"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "issued credentials",
			body:     []byte(`{"email": "awe@test.cd", "password": "` + res.ID + `"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var lr LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &lr); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if lr.Token == "" {
					t.Error("expected a signed token")
				}
			}
		})
	}
}

func TestAuthAPI_me(t *testing.T) {
	app := setup(t)

	b := createBatch(t, "Morning Batch")
	res := createStudent(t, "Awe Lol", "awe@test.cd", b.ID)
	token := getToken(t, res.Student)

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/me")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized}, rec)
	})

	t.Run("garbage token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/me", "lol")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/me", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

		var st student.Student
		if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if st.ID != res.ID || st.RollNumber != res.RollNumber {
			t.Errorf("student = %+v, want %v (%v)", st, res.ID, res.RollNumber)
		}
	})

	t.Run("report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/me/report", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

		var report student.ProgressReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if report.Student.ID != res.ID {
			t.Errorf("report.Student.ID = %v, want %v", report.Student.ID, res.ID)
		}
		if report.Grade != student.GradeF {
			t.Errorf("Grade = %v, want %v for a fresh student", report.Grade, student.GradeF)
		}
	})
}
