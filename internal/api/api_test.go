package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/logger"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() (*Server, http.Handler) {
	s := New(beam.Standard(), sketch.DefaultConfig(), logger.Discard())
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func create(t *testing.T, h http.Handler, body string) sketchResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/sketches", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", w.Code, w.Body.String())
	}
	var resp sketchResponse
	decode(t, w, &resp)
	return resp
}

func TestBeams(t *testing.T) {
	_, h := newTestServer()
	w := do(t, h, http.MethodGet, "/api/beams", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Beams []beam.Profile `json:"beams"`
	}
	decode(t, w, &resp)
	if len(resp.Beams) != beam.Standard().Len() {
		t.Errorf("got %d beams, want %d", len(resp.Beams), beam.Standard().Len())
	}
}

func TestCreateAndGet(t *testing.T) {
	s, h := newTestServer()
	resp := create(t, h, `{"beam":"W14x43"}`)

	if resp.Beam.Designation != "W14x43" {
		t.Errorf("beam = %q", resp.Beam.Designation)
	}
	e := resp.Extents
	if e.Rows != 12 || e.Cols != 60 || e.FlangeCols != 30 {
		t.Errorf("extents = %+v, want 12x60 with 30 flange cells", e)
	}
	if s.Len() != 1 {
		t.Errorf("sessions = %d, want 1", s.Len())
	}

	w := do(t, h, http.MethodGet, "/api/sketches/"+resp.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	var got sketchResponse
	decode(t, w, &got)
	if got.ID != resp.ID || len(got.Markup.Cells) != 0 {
		t.Errorf("get returned %+v", got)
	}
}

func TestCreateWithMarkup(t *testing.T) {
	_, h := newTestServer()
	resp := create(t, h, `{
		"beam": "W14x43",
		"web_cell_size": 2,
		"style": "iso",
		"cells": [
			{"row": 1, "col": 2, "state": "perforated"},
			{"row": 0, "col": 4, "flange": true, "state": "corroded"}
		]
	}`)
	if resp.Config.WebCellSize != 2 || resp.Config.Style.Name != "iso" {
		t.Errorf("config = %+v", resp.Config)
	}
	if resp.Extents.Rows != 6 || resp.Extents.Cols != 30 {
		t.Errorf("extents = %+v, want 6x30", resp.Extents)
	}
	if n := len(resp.Markup.Cells); n != 2 {
		t.Fatalf("captured %d cells, want 2", n)
	}

	w := do(t, h, http.MethodGet, "/api/sketches/"+resp.ID+"/contours", "")
	var cs struct {
		Contours []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"contours"`
	}
	decode(t, w, &cs)
	if len(cs.Contours) != 1 || cs.Contours[0].Type != "perforation" {
		t.Errorf("contours = %+v, want one perforation", cs.Contours)
	}
}

func TestCreateErrors(t *testing.T) {
	_, h := newTestServer()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"beam":`, http.StatusBadRequest},
		{"no beam", `{"cells":[]}`, http.StatusBadRequest},
		{"unknown beam", `{"beam":"W8x10"}`, http.StatusNotFound},
		{"bad cell size", `{"beam":"W14x43","web_cell_size":9}`, http.StatusBadRequest},
		{"bad style", `{"beam":"W14x43","style":"gothic"}`, http.StatusBadRequest},
		{"cell outside", `{"beam":"W14x43","cells":[{"row":40,"col":0,"state":"corroded"}]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/sketches", tt.body)
			if w.Code != tt.want {
				t.Errorf("status %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestSessionLimit(t *testing.T) {
	s, h := newTestServer()
	s.SetMaxSessions(1)
	create(t, h, `{"beam":"W14x43"}`)
	w := do(t, h, http.MethodPost, "/api/sketches", `{"beam":"W14x48"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d, want 503", w.Code)
	}
	// the limit is checked before the beam is resolved
	w = do(t, h, http.MethodPost, "/api/sketches", `{"beam":"W8x10"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unknown beam at the limit: status %d, want 503", w.Code)
	}
	if s.Len() != 1 {
		t.Errorf("sessions = %d, want 1", s.Len())
	}
}

func TestAdvance(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID
	path := "/api/sketches/" + id + "/cells/advance"

	var resp struct {
		Contour *struct {
			ID string `json:"id"`
		} `json:"contour"`
	}
	w := do(t, h, http.MethodPost, path, `{"row":0,"col":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"state":"corroded"`) {
		t.Errorf("first advance: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"contour"`) {
		t.Errorf("corroded cell should have no contour: %s", w.Body.String())
	}

	w = do(t, h, http.MethodPost, path, `{"row":0,"col":0}`)
	decode(t, w, &resp)
	if resp.Contour == nil || resp.Contour.ID != "contour-1" {
		t.Errorf("second advance contour = %+v, want contour-1", resp.Contour)
	}

	w = do(t, h, http.MethodPost, path, `{"row":99,"col":0}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("out of bounds: status %d, want 422", w.Code)
	}
	w = do(t, h, http.MethodPost, path, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body: status %d, want 400", w.Code)
	}

	w = do(t, h, http.MethodGet, "/api/sketches/"+id+"/summary", "")
	var sum struct {
		Intact      int `json:"intact"`
		SectionLoss int `json:"section_loss"`
		Contours    int `json:"contours"`
	}
	decode(t, w, &sum)
	if sum.Intact != 779 || sum.SectionLoss != 1 || sum.Contours != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestDimensions(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID
	base := "/api/sketches/" + id + "/dimensions"

	tests := []struct {
		query string
		count int
	}{
		{"?view=elevation", 8},
		{"?view=cross-section", 4},
		{"", 8},
	}
	for _, tt := range tests {
		w := do(t, h, http.MethodGet, base+tt.query, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, w.Code)
		}
		var resp struct {
			Dimensions []json.RawMessage `json:"dimensions"`
			Warning    string            `json:"warning"`
		}
		decode(t, w, &resp)
		if len(resp.Dimensions) != tt.count {
			t.Errorf("%s: %d dimensions, want %d", tt.query, len(resp.Dimensions), tt.count)
		}
		if resp.Warning != "" {
			t.Errorf("%s: unexpected warning %q", tt.query, resp.Warning)
		}
	}

	w := do(t, h, http.MethodGet, base+"?view=elevation&zoom=2", "")
	var zoomed struct {
		Zoom float64 `json:"zoom"`
	}
	decode(t, w, &zoomed)
	if zoomed.Zoom != 2 {
		t.Errorf("zoom = %v, want 2", zoomed.Zoom)
	}

	for _, q := range []string{"?view=plan", "?zoom=big", "?zoom=9"} {
		if w := do(t, h, http.MethodGet, base+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, w.Code)
		}
	}
}

func TestGeometry(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID

	w := do(t, h, http.MethodGet, "/api/sketches/"+id+"/geometry?view=cross-section", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var xs struct {
		Outline      geometry.Path `json:"outline"`
		Bounds       geometry.Rect `json:"bounds"`
		FilletRadius float64       `json:"fillet_radius"`
	}
	decode(t, w, &xs)
	if xs.FilletRadius <= 0 || len(xs.Outline.Segments) == 0 {
		t.Errorf("cross-section = %+v", xs)
	}
	if xs.Bounds.Width() < 79.9 || xs.Bounds.Width() > 80 {
		t.Errorf("bounds width = %.3f, want 79.95", xs.Bounds.Width())
	}

	w = do(t, h, http.MethodGet, "/api/sketches/"+id+"/geometry?view=elevation", "")
	var elev struct {
		Outline struct {
			Max struct{ X, Y float64 } `json:"max"`
		} `json:"outline"`
	}
	decode(t, w, &elev)
	if math.Abs(elev.Outline.Max.X-600) > 1e-9 || math.Abs(elev.Outline.Max.Y-137) > 1e-9 {
		t.Errorf("elevation outline max = %+v, want (600, 137)", elev.Outline.Max)
	}
}

func TestDelete(t *testing.T) {
	s, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID

	if w := do(t, h, http.MethodDelete, "/api/sketches/"+id, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if s.Len() != 0 {
		t.Errorf("sessions = %d after delete", s.Len())
	}
	if w := do(t, h, http.MethodGet, "/api/sketches/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: status %d, want 404", w.Code)
	}
	if w := do(t, h, http.MethodDelete, "/api/sketches/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("delete twice: status %d, want 404", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/api/sketches/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d, want 400", w.Code)
	}
}

func TestUpdate(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43","cells":[{"row":0,"col":0,"state":"section_loss"}]}`).ID
	path := "/api/sketches/" + id

	w := do(t, h, http.MethodPatch, path, `{"web_cell_size":2,"zoom":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp sketchResponse
	decode(t, w, &resp)
	if resp.Extents.Rows != 6 || resp.Config.Zoom != 2 || len(resp.Markup.Cells) != 0 {
		t.Errorf("after resize: extents %+v, zoom %v, %d cells", resp.Extents, resp.Config.Zoom, len(resp.Markup.Cells))
	}

	w = do(t, h, http.MethodPatch, path, `{"beam":"W14x90","scale":20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("beam change: status %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &resp)
	if resp.Beam.Designation != "W14x90" || resp.Config.Scale != 20 || resp.Config.WebCellSize != 2 {
		t.Errorf("after beam change: %s, config %+v", resp.Beam.Designation, resp.Config)
	}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown beam", path, `{"beam":"W8x10"}`, http.StatusNotFound},
		{"zoom out of range", path, `{"zoom":9}`, http.StatusBadRequest},
		{"flange cell out of range", path, `{"flange_cell_size":0.5}`, http.StatusBadRequest},
		{"malformed", path, `{"zoom":`, http.StatusBadRequest},
		{"no session", "/api/sketches/" + uuid.NewString(), `{"zoom":2}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, h, http.MethodPatch, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("status %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	decode(t, do(t, h, http.MethodGet, path, ""), &resp)
	if resp.Config.Zoom != 2 || resp.Config.FlangeCellSize != 2 {
		t.Errorf("rejected updates changed the config: %+v", resp.Config)
	}
}

func TestAddDimension(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID
	path := "/api/sketches/" + id + "/dimensions"

	w := do(t, h, http.MethodPost, path, `{"view":"cross-section","start":{"x":0,"y":137},"end":{"x":79.95,"y":137}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Dimension struct {
			Label string `json:"label"`
		} `json:"dimension"`
		View       string            `json:"view"`
		Dimensions []json.RawMessage `json:"dimensions"`
	}
	decode(t, w, &resp)
	if resp.Dimension.Label != `7.995"` || resp.View != "cross-section" || len(resp.Dimensions) != 5 {
		t.Errorf("response = %+v", resp)
	}

	w = do(t, h, http.MethodGet, path+"?view=cross-section", "")
	decode(t, w, &resp)
	if len(resp.Dimensions) != 5 {
		t.Errorf("layout keeps %d dimensions, want 5", len(resp.Dimensions))
	}

	for _, body := range []string{`{"view":"plan"}`, `{"view":`} {
		if w := do(t, h, http.MethodPost, path, body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", body, w.Code)
		}
	}
}

func TestAnnotations(t *testing.T) {
	_, h := newTestServer()
	id := create(t, h, `{"beam":"W14x43"}`).ID
	path := "/api/sketches/" + id + "/annotations"

	w := do(t, h, http.MethodPost, path, `{"type":"callout","position":{"x":120,"y":40},"text":"pack rust"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var a struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decode(t, w, &a)
	if a.ID != "annotation-1" || a.Type != "callout" {
		t.Errorf("created %+v", a)
	}

	w = do(t, h, http.MethodPost, path, `{"type":"leader","position":{"x":10,"y":10},"text":"hole","points":[{"x":40,"y":60}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("leader: status %d: %s", w.Code, w.Body.String())
	}

	for _, body := range []string{
		`{"type":"arrow","text":"x"}`,
		`{"type":"measurement","text":"x","points":[{"x":1,"y":1}]}`,
		`{"type":"callout","text":""}`,
	} {
		if w := do(t, h, http.MethodPost, path, body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", body, w.Code)
		}
	}

	if w := do(t, h, http.MethodDelete, path+"/annotation-1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := do(t, h, http.MethodDelete, path+"/annotation-1", ""); w.Code != http.StatusNotFound {
		t.Errorf("delete twice: status %d, want 404", w.Code)
	}

	var list struct {
		Annotations []struct {
			ID string `json:"id"`
		} `json:"annotations"`
	}
	decode(t, do(t, h, http.MethodGet, path, ""), &list)
	if len(list.Annotations) != 1 || list.Annotations[0].ID != "annotation-2" {
		t.Errorf("annotations = %+v", list.Annotations)
	}

	var got sketchResponse
	decode(t, do(t, h, http.MethodGet, "/api/sketches/"+id, ""), &got)
	if len(got.Markup.Annotations) != 1 || got.Markup.Annotations[0].Kind != sketch.Leader {
		t.Errorf("markup annotations = %+v", got.Markup.Annotations)
	}
}
