package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/DataGate/internal/config"
	"github.com/JonMunkholm/DataGate/internal/gate"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	reg := schema.NewRegistry()
	branch, err := schema.NewTableSchema("DIM_BRANCH", "",
		schema.FileFormat{Delimiter: "~"},
		[]schema.ColumnDefinition{
			{Position: 0, Name: "v_branch_code", Type: schema.TypeText, MaxLength: 10, Nullable: false},
			{Position: 1, Name: "v_branch_name", Type: schema.TypeText, Nullable: true},
		})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(branch); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Paths:      config.PathsConfig{OutputDir: t.TempDir()},
		Validation: config.ValidationConfig{AcceptThreshold: 95, Workers: 2},
		Server: config.ServerConfig{
			Port:            8080,
			RequestTimeout:  time.Minute,
			ShutdownTimeout: time.Second,
			MaxUploadSize:   1 << 20,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}

	return NewServer(gate.NewService(cfg, reg, nil), cfg)
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestListTables(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var tables []tableInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &tables); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tables) != 1 || tables[0].Name != "DIM_BRANCH" || tables[0].Columns != 2 {
		t.Errorf("tables = %+v", tables)
	}
}

func TestListRunsEmpty(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" && got != "[]" {
		t.Errorf("body = %q, want an empty listing", got)
	}
}

func uploadRequest(t *testing.T, table, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if table != "" {
		if err := mw.WriteField("table", table); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/validate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestValidateUpload(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, uploadRequest(t, "DIM_BRANCH", "upload.dat", "B01~Main\n~Unnamed\n"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var out gate.RunOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Table != "DIM_BRANCH" {
		t.Errorf("Table = %q", out.Table)
	}
	if out.Result == nil || out.Result.TotalRecords != 2 || out.Result.ValidCount() != 1 {
		t.Errorf("result = %+v", out.Result)
	}
	if out.Passed {
		t.Error("Passed = true for a 50% score")
	}

	// The run now shows up in the listing and its artifacts are served.
	rec = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	var runs []runInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("unmarshal runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Table != "DIM_BRANCH" {
		t.Fatalf("runs = %+v", runs)
	}

	rec = doRequest(t, s, httptest.NewRequest(http.MethodGet, runs[0].ReportHTML, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("report html status = %d", rec.Code)
	}
}

func TestValidateUploadDetectsTable(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, uploadRequest(t, "", "DIM_BRANCH_20250115.dat", "B01~Main\n"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var out gate.RunOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Table != "DIM_BRANCH" {
		t.Errorf("Table = %q, want DIM_BRANCH", out.Table)
	}
}

func TestValidateUploadUnknownTable(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, uploadRequest(t, "DIM_NOPE", "x.dat", "B01~Main\n"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("error body missing message")
	}
}

func TestValidateUploadMissingFile(t *testing.T) {
	s := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("table", "DIM_BRANCH"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/validate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := doRequest(t, s, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIndexRenders(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Validation Runs") {
		t.Errorf("index body = %s", rec.Body)
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	s := testServer(t)
	s.cfg.Server.Port = 0 // let the OS pick

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
