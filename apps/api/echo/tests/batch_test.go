package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/academy/core/batch"
)

func TestBatchAPI(t *testing.T) {
	app := setup(t)

	var created batch.Batch

	t.Run("create: missing fields", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/batches", []byte(`{"timings": "9AM - 11AM"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest}, rec)
	})

	t.Run("create: ok", func(t *testing.T) {
		body := []byte(`{"name": "Morning Batch", "start_date": "2026-09-01T00:00:00Z", "timings": "9AM - 11AM"}`)
		req, rec := newRequest(http.MethodPost, "/v1/batches", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated}, rec)

		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if created.ID == "" || created.Name != "Morning Batch" {
			t.Errorf("batch = %+v", created)
		}
	})

	t.Run("query", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/batches")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

		var batches []batch.Batch
		if err := json.Unmarshal(rec.Body.Bytes(), &batches); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(batches) != 1 || batches[0].ID != created.ID {
			t.Errorf("batches = %+v, want just %v", batches, created.ID)
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/batches/"+created.ID)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, rec)

		req, rec = newRequest(http.MethodGet, "/v1/batches/nope")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, rec)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/v1/batches/"+created.ID)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, rec)

		req, rec = newRequest(http.MethodGet, "/v1/batches/"+created.ID)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, rec)
	})
}
