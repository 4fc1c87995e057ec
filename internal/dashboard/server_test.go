package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ppiankov/fossilmap/internal/llm"
	"github.com/ppiankov/fossilmap/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSites() []model.Site {
	return []model.Site{
		{Site: "Messel pit", Country: "Germany", Continent: "Europe", Age: "Eocene",
			Noteworthiness: "Mammals", Location: model.NewPoint(49.9, 8.75), Article: "Messel pit"},
		{Site: "Santana Formation", Country: "Brazil", Continent: "South America", Age: "Cretaceous",
			Noteworthiness: "Pterosaurs", Location: model.NewPoint(-7.3, -39.7)},
		{Site: "Hell Creek Formation", Country: "USA", Continent: "North America", Age: "Cretaceous to Paleocene",
			Noteworthiness: "Tyrannosaurus"},
		{Site: "Burgess Shale", Country: "Canada", Continent: "North America", Age: "Cambrian",
			Noteworthiness: "Soft bodied animals", Location: model.NewPoint(51.43, -116.47)},
	}
}

func newTestServer(t *testing.T, summarizer *llm.Summarizer) *Server {
	t.Helper()
	s, err := NewServer(testSites(), model.DefaultConfig().Dashboard, summarizer)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeSites(t *testing.T, w *httptest.ResponseRecorder) (*geojson.FeatureCollection, []string) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatalf("decode GeoJSON: %v", err)
	}
	names := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		names = append(names, f.Properties.MustString("site"))
	}
	return fc, names
}

func TestSites_Unfiltered(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/api/sites")

	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("unexpected content type %q", ct)
	}

	fc, names := decodeSites(t, w)
	want := []string{"Messel pit", "Santana Formation", "Burgess Shale"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Errorf("features = %v, want %v (location-less rows omitted, order kept)", names, want)
	}
	if fc.ExtraMembers.MustFloat64("matched") != 4 || fc.ExtraMembers.MustFloat64("total") != 4 {
		t.Errorf("unexpected counts %v", fc.ExtraMembers)
	}

	point, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected Point geometry, got %s", fc.Features[0].Geometry.GeoJSONType())
	}
	if point.Lon() != 8.75 || point.Lat() != 49.9 {
		t.Errorf("expected [lon, lat] order, got %v", point)
	}
}

func TestSites_Filtered(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    []string
		matched float64
	}{
		{"single period", "?from=Cretaceous&to=Cretaceous", []string{"Santana Formation"}, 2},
		{"period range by index", "?from=9&to=11", []string{"Messel pit", "Santana Formation"}, 3},
		{"reversed range", "?from=11&to=9", []string{"Messel pit", "Santana Formation"}, 3},
		{"country case-insensitive", "?country=germany", []string{"Messel pit"}, 1},
		{"country OR", "?country=Germany,%20Canada,", []string{"Messel pit", "Burgess Shale"}, 2},
		{"country AND note", "?country=Brazil&note=mammals", []string{}, 0},
		{"site substring", "?site=shale", []string{"Burgess Shale"}, 1},
		{"note substring", "?note=tyranno", []string{}, 1},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, names := decodeSites(t, do(t, s, http.MethodGet, "/api/sites"+tt.query))
			if strings.Join(names, "|") != strings.Join(tt.want, "|") {
				t.Errorf("features = %v, want %v", names, tt.want)
			}
			if got := fc.ExtraMembers.MustFloat64("matched"); got != tt.matched {
				t.Errorf("matched = %v, want %v", got, tt.matched)
			}
		})
	}
}

func TestSites_Display(t *testing.T) {
	s := newTestServer(t, nil)

	body := do(t, s, http.MethodGet, "/api/sites?style=carto-positron&point=%2300ff00&label=%23112233").Body.Bytes()
	var resp struct {
		Display Display `json:"display"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Display.Style != "carto-positron" || resp.Display.PointColour != "#00FF00" {
		t.Errorf("unexpected display %+v", resp.Display)
	}
	if resp.Display.LabelColour != "#00FF00" {
		t.Errorf("label colour should follow point colour unless separate, got %s", resp.Display.LabelColour)
	}

	body = do(t, s, http.MethodGet, "/api/sites?point=%2300ff00&label=%23112233&separate=yes").Body.Bytes()
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Display.LabelColour != "#112233" {
		t.Errorf("expected separate label colour, got %s", resp.Display.LabelColour)
	}
}

func TestSites_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	for _, q := range []string{
		"?from=Quaternary",
		"?to=17",
		"?point=magenta",
		"?label=%23FFF&separate=yes",
		"?style=watercolor",
	} {
		if w := do(t, s, http.MethodGet, "/api/sites"+q); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestTimelineAndOptions(t *testing.T) {
	s := newTestServer(t, nil)

	var periods []PeriodOption
	if err := json.Unmarshal(do(t, s, http.MethodGet, "/api/timeline").Body.Bytes(), &periods); err != nil {
		t.Fatalf("decode timeline: %v", err)
	}
	if len(periods) != 17 || periods[0].Name != "Precambrian" || periods[16].Name != "Holocene" {
		t.Errorf("unexpected timeline %v", periods)
	}

	var opts struct {
		MapStyles    []MapStyle `json:"map_styles"`
		DefaultStyle string     `json:"default_style"`
		PointColour  string     `json:"point_colour"`
		Summaries    bool       `json:"summaries"`
	}
	if err := json.Unmarshal(do(t, s, http.MethodGet, "/api/options").Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts.MapStyles) != 5 || opts.DefaultStyle != "stamen-terrain" || opts.PointColour != "#FF00FF" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Summaries {
		t.Error("summaries should be disabled without a provider")
	}
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Fossil Sites Visualization",
		`<option value="16" selected>Holocene</option>`,
		"Search for individual countries:",
		"separate them by a comma",
		`value="stamen-terrain" checked`,
		"Choose point and label colours separately",
		"tile.openstreetmap.org",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if strings.Contains(body, `id="summarize"`) {
		t.Error("summary button should be hidden when summaries are disabled")
	}
}

func TestSummary_Disabled(t *testing.T) {
	s := newTestServer(t, nil)
	if w := do(t, s, http.MethodPost, "/api/summary"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestSummary_Enabled(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"model":    "llama3.1",
				"response": "One Eocene lake deposit in Germany. https://en.wikipedia.org/wiki/Messel_pit",
				"done":     true,
			})
		}
	}))
	defer ollama.Close()

	cfg := llm.DefaultConfig()
	cfg.Provider = "ollama"
	cfg.Model = "llama3.1"
	cfg.BaseURL = ollama.URL
	summarizer, err := llm.NewSummarizer(cfg)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	s := newTestServer(t, summarizer)
	w := do(t, s, http.MethodPost, "/api/summary?country=germany")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary llm.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !summary.Enabled || !strings.HasPrefix(summary.Text, "One Eocene lake deposit") {
		t.Errorf("unexpected summary %+v", summary)
	}

	if !strings.Contains(do(t, s, http.MethodGet, "/").Body.String(), `id="summarize"`) {
		t.Error("summary button should be shown when summaries are enabled")
	}
	if w := do(t, s, http.MethodPost, "/api/summary?from=Jura"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad period, got %d", w.Code)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	var health map[string]any
	if err := json.Unmarshal(do(t, s, http.MethodGet, "/healthz").Body.Bytes(), &health); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if health["status"] != "ok" || health["sites"] != float64(4) || health["located"] != float64(3) {
		t.Errorf("unexpected health %v", health)
	}

	do(t, s, http.MethodGet, "/api/sites")
	w := do(t, s, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `fossilmap_http_requests_total{method="GET",path="/api/sites",status="200"}`) {
		t.Error("expected request counter for /api/sites")
	}
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := model.DefaultConfig().Dashboard
	cfg.PointColour = "pink"
	if _, err := NewServer(nil, cfg, nil); err == nil {
		t.Error("expected error for invalid colour")
	}

	cfg = model.DefaultConfig().Dashboard
	cfg.MapStyle = "watercolor"
	if _, err := NewServer(nil, cfg, nil); err == nil {
		t.Error("expected error for unknown map style")
	}
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ff00ff", "#FF00FF", false},
		{" #A1b2C3 ", "#A1B2C3", false},
		{"#FFF", "", true},
		{"FF00FF", "", true},
		{"#GG0000", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColour(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColour(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
