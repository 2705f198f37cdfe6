package commitment

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

const (
	testRoot = "9585203c4a89785375d3ce2fe41f97903feabadb03e4eae6e576ee97524ec32b"
	testLeaf = "e73ff0e5bdc3b846faa7b77e268ae95aa1715c7a85f80df461c7cd473ae3c33c"
	testSib1 = "b693721234483b94325e74a1d0843884e9a5464c6fecf30a684277bffb58a2b4"
	testSib2 = "e5f4f8bbeaab1db484280ede48eddd8025c5e348924561d63a1e3bea72e928da"
	testSib3 = "23c120358ad0cba40d29338ca6ce6eea626d45ca2d89abf2fac192507177edda"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api2/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.BaseURL() != DefaultBaseURL {
		t.Fatalf("unexpected base URL: %s", client.BaseURL())
	}
	if client.PredictionType() != hashing.PredictionCommunity {
		t.Fatalf("unexpected default prediction type: %s", client.PredictionType())
	}
	if client.httpClient.Timeout != defaultHTTPTimeout {
		t.Fatalf("unexpected timeout: %s", client.httpClient.Timeout)
	}
}

func TestNewClientOptions(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL:        "https://forecasts.example.com/api2/",
		PredictionType: hashing.PredictionMetaculus,
		HTTPTimeout:    5 * time.Second,
		APIKey:         " secret ",
		Headers:        map[string]string{"X-Custom": "test"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.BaseURL() != "https://forecasts.example.com/api2" {
		t.Fatalf("unexpected base URL: %s", client.BaseURL())
	}
	if client.PredictionType() != hashing.PredictionMetaculus {
		t.Fatalf("unexpected prediction type: %s", client.PredictionType())
	}
	if client.apiKey != "secret" || client.headers["X-Custom"] != "test" {
		t.Fatalf("unexpected credentials: %q %v", client.apiKey, client.headers)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", client.httpClient.Timeout)
	}
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	cases := []Config{
		{BaseURL: "ftp://example.com"},
		{BaseURL: "https://"},
		{BaseURL: "://bad"},
		{PredictionType: "XX"},
	}
	for _, config := range cases {
		if _, err := NewClient(config); err == nil {
			t.Fatalf("expected error for %+v", config)
		}
	}
}

func TestFetchRootForDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api2/tezos/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("timestamp"); got != "2024-03-01 00:00:00" {
			t.Fatalf("unexpected timestamp query: %q", got)
		}
		_, _ = w.Write([]byte(`[
			{"merkle_root": "` + testRoot + `", "timestamp": "2024-03-01T00:05:12.123456Z"},
			{"merkle_root": "` + testSib1 + `", "timestamp": "2024-03-02T00:05:12Z"}
		]`))
	})

	stamp, err := client.FetchRootForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stamp.MerkleRoot != testRoot {
		t.Fatalf("unexpected root: %s", stamp.MerkleRoot)
	}
	if stamp.Timestamp != "2024-03-01T00:05:12" {
		t.Fatalf("unexpected timestamp: %s", stamp.Timestamp)
	}
	if stamp.RawTimestamp != "2024-03-01T00:05:12.123456Z" {
		t.Fatalf("unexpected raw timestamp: %s", stamp.RawTimestamp)
	}
}

func TestFetchRootForDateCamelCase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"merkleRoot": "` + testRoot + `", "timestamp": "2024-03-01T00:05:12"}]`))
	})

	stamp, err := client.FetchRootForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || stamp.MerkleRoot != testRoot {
		t.Fatalf("unexpected result: %+v %v", stamp, err)
	}
}

func TestFetchRootForDateEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.FetchRootForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchRootForDateMalformed(t *testing.T) {
	cases := map[string]string{
		"bad root":        `[{"merkle_root": "zz", "timestamp": "2024-03-01T00:05:12"}]`,
		"short timestamp": `[{"merkle_root": "` + testRoot + `", "timestamp": "2024-03-01"}]`,
		"not json":        `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.FetchRootForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
			var responseErr *ResponseError
			if !errors.As(err, &responseErr) {
				t.Fatalf("expected ResponseError, got %v", err)
			}
		})
	}
}

func TestFetchPredictionForDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api2/questions/12345/prediction-for-date/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2024-03-01T00:05:12" {
			t.Fatalf("unexpected date query: %q", got)
		}
		_, _ = w.Write([]byte(`{"cp": 0.42, "mp": {"q2": 0.5, "q1": 0.1}}`))
	})

	value, err := client.FetchPredictionForDate(context.Background(), 12345, "2024-03-01T00:05:12", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "0.42" {
		t.Fatalf("unexpected value: %s", value)
	}

	value, err = client.FetchPredictionForDate(context.Background(), 12345, "2024-03-01T00:05:12", hashing.PredictionMetaculus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != `{"q2": 0.5, "q1": 0.1}` {
		t.Fatalf("expected raw value with original key order, got %s", value)
	}
}

func TestFetchPredictionForDateUpperCaseField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"CP": 0}`))
	})

	value, err := client.FetchPredictionForDate(context.Background(), 7, "2024-03-01T00:05:12", hashing.PredictionCommunity)
	if err != nil {
		t.Fatalf("expected numeric zero to be a prediction, got %v", err)
	}
	if string(value) != "0" {
		t.Fatalf("unexpected value: %s", value)
	}
}

func TestFetchPredictionForDateNotAvailable(t *testing.T) {
	bodies := []string{`{}`, `{"cp": null}`, `{"cp": ""}`, `{"cp": []}`, `{"cp": { }}`, `{"cp": false}`, `{"mp": 0.3}`}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := client.FetchPredictionForDate(context.Background(), 7, "2024-03-01T00:05:12", hashing.PredictionCommunity)
		if !errors.Is(err, ErrNotAvailable) {
			t.Fatalf("expected ErrNotAvailable for %s, got %v", body, err)
		}
	}
}

func TestFetchPredictionForDateKeepsZero(t *testing.T) {
	for _, body := range []string{`{"cp": 0}`, `{"cp": 0.0}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		value, err := client.FetchPredictionForDate(context.Background(), 7, "2024-03-01T00:05:12", hashing.PredictionCommunity)
		if err != nil {
			t.Fatalf("expected zero prediction to be available for %s, got %v", body, err)
		}
		if string(value) != strings.TrimSuffix(strings.TrimPrefix(body, `{"cp": `), "}") {
			t.Fatalf("unexpected value for %s: %s", body, value)
		}
	}
}

func TestFetchPredictionForDateRejectsBadInput(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	var validationErr *hashing.ValidationError

	if _, err := client.FetchPredictionForDate(ctx, 0, "t", ""); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for question ID, got %v", err)
	}
	if _, err := client.FetchPredictionForDate(ctx, 1, " ", ""); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for timestamp, got %v", err)
	}
	if _, err := client.FetchPredictionForDate(ctx, 1, "t", "cp"); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for lowercase type, got %v", err)
	}
}

func TestFetchAuditTrail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api2/tezos/audit-trail/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("merkle_root") != testRoot || query.Get("hashed_prediction") != testLeaf {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"verified": true, "audit_trail": [["` + testSib1 + `", true], ["` +
			testSib2 + `", false], ["` + testSib3 + `", true], "` + testRoot + `"]}`))
	})

	trail, err := client.FetchAuditTrail(context.Background(), testRoot, testLeaf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := proof.Verify(testLeaf, trail)
	if err != nil || !ok {
		t.Fatalf("expected fetched trail to verify, got %v %v", ok, err)
	}
}

func TestFetchAuditTrailRemoteErrors(t *testing.T) {
	cases := map[string]string{
		"not verified":     `{"verified": false, "audit_trail": []}`,
		"missing verified": `{"audit_trail": ["` + testRoot + `"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.FetchAuditTrail(context.Background(), testRoot, testLeaf)
			var remoteErr *RemoteVerificationError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected RemoteVerificationError, got %v", err)
			}
			if remoteErr.Error() != "Remote verification error" {
				t.Fatalf("unexpected message: %q", remoteErr.Error())
			}
		})
	}
}

func TestFetchAuditTrailCamelCaseAndMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"verified": true, "auditTrail": [["` + testSib1 + `", "left"], "` + testRoot + `"]}`))
	})

	_, err := client.FetchAuditTrail(context.Background(), testRoot, testLeaf)
	var validationErr *proof.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected proof.ValidationError, got %v", err)
	}
	if validationErr.Index != 0 {
		t.Fatalf("unexpected index: %d", validationErr.Index)
	}
	var responseErr *ResponseError
	if !errors.As(err, &responseErr) || !IsRemoteFailure(err) {
		t.Fatalf("expected malformed trail to be a remote failure, got %v", err)
	}
	if !strings.Contains(responseErr.Body, testRoot) {
		t.Fatalf("expected response body to carry the trail, got %q", responseErr.Body)
	}
}

func TestFetchAuditTrailHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "unknown merkle root"}` + "\n"))
	})

	_, err := client.FetchAuditTrail(context.Background(), testRoot, testLeaf)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != http.StatusBadRequest || transportErr.Temporary() {
		t.Fatalf("unexpected transport error: %+v", transportErr)
	}
	if !strings.HasPrefix(err.Error(), "wasn't able to proceed with verification") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !strings.HasSuffix(err.Error(), `{"detail": "unknown merkle root"}`) {
		t.Fatalf("expected body in message, got %q", err.Error())
	}
}

func TestFetchAuditTrailRejectsMalformedHashes(t *testing.T) {
	client, _ := NewClient(Config{})
	var validationErr *hashing.ValidationError
	if _, err := client.FetchAuditTrail(context.Background(), "nope", testLeaf); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := client.FetchAuditTrail(context.Background(), testRoot, ""); !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token secret" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("X-Custom"); got != "value" {
			t.Fatalf("unexpected custom header: %q", got)
		}
		if got := r.Header.Get("Accept-Encoding"); !strings.Contains(got, "br") {
			t.Fatalf("unexpected accept-encoding: %q", got)
		}
		_, _ = w.Write([]byte(`{"cp": 0.5}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "secret",
		Headers: map[string]string{"X-Custom": "value"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.FetchPredictionForDate(context.Background(), 1, "t", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompressedResponses(t *testing.T) {
	payload := []byte(`{"cp": 0.42}`)

	var brotliBody bytes.Buffer
	brotliWriter := brotli.NewWriter(&brotliBody)
	_, _ = brotliWriter.Write(payload)
	_ = brotliWriter.Close()

	var gzipBody bytes.Buffer
	gzipWriter := gzip.NewWriter(&gzipBody)
	_, _ = gzipWriter.Write(payload)
	_ = gzipWriter.Close()

	cases := map[string][]byte{"br": brotliBody.Bytes(), "gzip": gzipBody.Bytes()}
	for encoding, body := range cases {
		t.Run(encoding, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(body)
			})
			value, err := client.FetchPredictionForDate(context.Background(), 1, "t", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(value) != "0.42" {
				t.Fatalf("unexpected value: %s", value)
			}
		})
	}
}

func TestNetworkFailureIsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = client.FetchRootForDate(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Status != 0 || !IsRetryable(err) {
		t.Fatalf("expected retryable network failure, got %+v", transportErr)
	}
	if !IsRemoteFailure(err) {
		t.Fatal("expected network failure to be a remote failure")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&TransportError{Status: 503}, true},
		{&TransportError{Status: 429}, true},
		{&TransportError{Status: 404}, false},
		{&TransportError{Cause: context.Canceled}, false},
		{ErrNotFound, false},
		{&RemoteVerificationError{}, false},
		{errors.New("other"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
