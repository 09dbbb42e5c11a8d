package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"layer-comparator/internal/catalog"
	"layer-comparator/internal/export"
	"layer-comparator/internal/logging"
	"layer-comparator/internal/routes"
	"layer-comparator/internal/session"
	"layer-comparator/internal/storage"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func writePNG(t *testing.T, root string, key string, width int, height int, c color.Color) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	p := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(p, buffer.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

type fixture struct {
	server *httptest.Server
	reader *sdkmetric.ManualReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	writePNG(t, root, "Example/V1/a.png", 4, 4, color.NRGBA{R: 255, A: 255})
	writePNG(t, root, "Example/V2/a.png", 4, 4, color.NRGBA{R: 255, G: 10, A: 255})
	writePNG(t, root, "Example/V2/b.png", 2, 2, color.NRGBA{B: 255, A: 255})

	ctx := context.Background()
	s, err := storage.NewFileStorage(ctx, storage.FileConfig{Directory: root})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	logger := logging.Discard()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	server := NewServer(session.New(s, session.Config{Logger: logger}), catalog.New(s, logger), export.New(s), logger)
	handler, err := server.Handler(meter)
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &fixture{server: ts, reader: reader}
}

func (f *fixture) do(t *testing.T, method string, path string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, f.server.URL+path, r)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := f.server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func (f *fixture) recomputes(t *testing.T) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := f.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "comparison_recomputes_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				result, _ := dp.Attributes.Value("result")
				counts[result.AsString()] = dp.Value
			}
		}
	}
	return counts
}

func TestServer_Catalog(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/catalog/contexts", nil)
	expectStatus(t, resp, http.StatusOK)
	if diff := cmp.Diff([]string{"Example"}, decode[[]string](t, resp)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodGet, "/api/catalog/Example/versions", nil)
	expectStatus(t, resp, http.StatusOK)
	if diff := cmp.Diff([]string{"V1", "V2"}, decode[[]string](t, resp)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodGet, "/api/catalog/Example/V2/variants", nil)
	expectStatus(t, resp, http.StatusOK)
	if diff := cmp.Diff([]string{"a.png", "b.png"}, decode[[]string](t, resp)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodGet, "/api/catalog/Missing/versions", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[[]string](t, resp); len(got) != 0 {
		t.Errorf("Expected empty list, got %v", got)
	}

	for _, path := range []string{
		"/api/catalog/..%2F/versions",
		"/api/catalog/..%2F..%2F..%2F..%2Fetc/versions",
		"/api/catalog/Example/..%2F..%2F/variants",
		"/api/catalog/..%2F/V1/variants",
	} {
		resp = f.do(t, http.MethodGet, path, nil)
		expectStatus(t, resp, http.StatusOK)
		if got := decode[[]string](t, resp); len(got) != 0 {
			t.Errorf("Expected %s to list nothing, got %v", path, got)
		}
	}
}

func TestServer_Comparison(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodGet, "/api/view/previous", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = f.do(t, http.MethodPost, "/api/actions/show-difference", nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[routes.SessionResponse](t, resp); got.State != session.Uninitialized.String() {
		t.Errorf("Expected show-difference without data to be a no-op, got %s", got.State)
	}

	resp = f.do(t, http.MethodPut, "/api/session/previous", session.SelectionPath{Context: "Example", Version: "V1", Variant: "a.png"})
	expectStatus(t, resp, http.StatusOK)
	resp = f.do(t, http.MethodPut, "/api/session/next", session.SelectionPath{Context: "Example", Version: "V2", Variant: "a.png"})
	expectStatus(t, resp, http.StatusOK)
	got := decode[routes.SessionResponse](t, resp)
	if got.State != session.ShowingPrevious.String() {
		t.Errorf("Expected %s once both images are loaded, got %s", session.ShowingPrevious, got.State)
	}
	if diff := cmp.Diff(&routes.FootprintResponse{Width: 4, Height: 4 + session.ControlMargin}, got.Footprint); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	resp = f.do(t, http.MethodPost, "/api/actions/show-difference", nil)
	expectStatus(t, resp, http.StatusOK)
	got = decode[routes.SessionResponse](t, resp)
	if got.Difference == nil || !got.Difference.Fresh || got.Difference.DiffAmount != 1 {
		t.Fatalf("Expected a fresh full difference, got %+v", got.Difference)
	}

	resp = f.do(t, http.MethodGet, "/api/view/difference", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if fresh := resp.Header.Get("X-Difference-Fresh"); fresh != "true" {
		t.Errorf("Expected a fresh difference header, got %q", fresh)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g>>8 != 10 || b != 0 {
		t.Errorf("Expected |a-b| = (0,10,0), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	resp = f.do(t, http.MethodPost, "/api/view/difference/export", nil)
	expectStatus(t, resp, http.StatusCreated)
	if got := decode[routes.ExportResponse](t, resp); got.URL == "" {
		t.Errorf("Expected an export url")
	}

	resp = f.do(t, http.MethodPut, "/api/session/next", session.SelectionPath{Context: "Example", Version: "V2", Variant: "b.png"})
	expectStatus(t, resp, http.StatusOK)

	resp = f.do(t, http.MethodPost, "/api/actions/show-difference", nil)
	expectStatus(t, resp, http.StatusConflict)

	resp = f.do(t, http.MethodGet, "/api/view/difference", nil)
	expectStatus(t, resp, http.StatusOK)
	if fresh := resp.Header.Get("X-Difference-Fresh"); fresh != "false" {
		t.Errorf("Expected the kept difference to be stale, got %q", fresh)
	}

	if diff := cmp.Diff(map[string]int64{"ok": 1, "error": 1}, f.recomputes(t)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestServer_Errors(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"traversal", http.MethodPut, "/api/session/previous", session.SelectionPath{Context: "..", Version: "V1", Variant: "a.png"}, http.StatusBadRequest},
		{"missing file", http.MethodPut, "/api/session/next", session.SelectionPath{Context: "Example", Version: "V1", Variant: "missing.png"}, http.StatusUnprocessableEntity},
		{"difference slot", http.MethodPut, "/api/session/difference", session.SelectionPath{Context: "Example", Version: "V1", Variant: "a.png"}, http.StatusNotFound},
		{"unknown action", http.MethodPost, "/api/actions/explode", nil, http.StatusNotFound},
		{"load action", http.MethodPost, "/api/actions/load-next", nil, http.StatusNotFound},
		{"recompute without data", http.MethodPost, "/api/actions/recompute", nil, http.StatusConflict},
		{"unknown selector", http.MethodGet, "/api/view/sideways", nil, http.StatusNotFound},
		{"healthz", http.MethodGet, "/healthz", nil, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.do(t, tc.method, tc.path, tc.body)
			expectStatus(t, resp, tc.want)
		})
	}
}
