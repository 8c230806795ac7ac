package report

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func serveBody(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload_JSONArray(t *testing.T) {
	srv := serveBody(t, `[{"user_login":"alice"},{"user_login":"bob"},{"user_login":"carol"}]`)

	d := NewDownloader(zap.NewNop())
	records := d.Download([]string{srv.URL})

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if got := records[i].Str("user_login"); got != want {
			t.Errorf("records[%d] user_login = %q, want %q", i, got, want)
		}
	}
}

func TestDownload_SingleObject(t *testing.T) {
	srv := serveBody(t, `{"user_login":"alice"}`)

	d := NewDownloader(zap.NewNop())
	records := d.Download([]string{srv.URL})

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Str("user_login") != "alice" {
		t.Errorf("user_login = %q, want alice", records[0].Str("user_login"))
	}
}

func TestDownload_JSONLinesWithMalformedLine(t *testing.T) {
	body := `{"user_login":"alice"}
not json at all
{"user_login":"bob"}`
	srv := serveBody(t, body)

	d := NewDownloader(zap.NewNop())
	records := d.Download([]string{srv.URL})

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Str("user_login") != "alice" || records[1].Str("user_login") != "bob" {
		t.Errorf("records = %v, want alice then bob", records)
	}
}

func TestDownload_FailedLinkIsDropped(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)
	good := serveBody(t, `[{"user_login":"alice"}]`)

	d := NewDownloader(zap.NewNop())
	records := d.Download([]string{bad.URL, good.URL})

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Str("user_login") != "alice" {
		t.Errorf("user_login = %q, want alice", records[0].Str("user_login"))
	}
}

func TestDownload_LinkOrderPreserved(t *testing.T) {
	first := serveBody(t, `[{"n":1},{"n":2}]`)
	second := serveBody(t, `[{"n":3}]`)

	d := NewDownloader(zap.NewNop())
	records := d.Download([]string{first.URL, second.URL})

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, want := range []float64{1, 2, 3} {
		if got := records[i].Num("n"); got != want {
			t.Errorf("records[%d] n = %v, want %v", i, got, want)
		}
	}
}

func TestParseBody_Outcomes(t *testing.T) {
	if res := parseBody([]byte(`[{"a":1}]`)); res.outcome != parsedDocument {
		t.Errorf("array outcome = %v, want parsedDocument", res.outcome)
	}
	if res := parseBody([]byte("{\"a\":1}\n{\"b\":2}\noops")); res.outcome != parsedLines {
		t.Errorf("ndjson outcome = %v, want parsedLines", res.outcome)
	} else if len(res.records) != 2 || len(res.lineErrors) != 1 {
		t.Errorf("ndjson records = %d lineErrors = %d, want 2 and 1", len(res.records), len(res.lineErrors))
	}
	if res := parseBody([]byte("complete garbage")); res.outcome != unparseable {
		t.Errorf("garbage outcome = %v, want unparseable", res.outcome)
	}
}

func TestPopulate(t *testing.T) {
	srv := serveBody(t, `[{"user_login":"alice"}]`)

	env := &Envelope{DownloadLinks: []string{srv.URL}}
	if env.Data != nil {
		t.Fatal("Data should be nil before Populate")
	}

	NewDownloader(zap.NewNop()).Populate(env)

	if len(env.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(env.Data))
	}
}
