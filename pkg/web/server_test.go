package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ritzau/fault-tree-analyzer/pkg/faulttree"
)

func testTree(t *testing.T) *faulttree.FaultTree {
	t.Helper()
	ft := faulttree.NewFaultTree("Demo")
	top := faulttree.NewGate("TOP", "and")
	e1 := faulttree.NewBasicEvent("E1", 0.01)
	e2 := faulttree.NewBasicEvent("E2", 0.02)
	top.AddArgument(e1)
	top.AddArgument(e2)
	for _, err := range []error{ft.AddGate(top), ft.AddBasicEvent(e1), ft.AddBasicEvent(e2)} {
		if err != nil {
			t.Fatalf("Failed to build test tree: %v", err)
		}
	}
	return ft
}

func TestHandleModel_BeforeLoad(t *testing.T) {
	s := NewServer(0)

	req := httptest.NewRequest("GET", "/api/model", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before a model is loaded, got %d", rec.Code)
	}
}

func TestHandleModel_Summary(t *testing.T) {
	s := NewServer(0)
	s.SetTree(testTree(t))

	req := httptest.NewRequest("GET", "/api/model", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var summary ModelSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode summary: %v", err)
	}
	if summary.Name != "Demo" || summary.Gates != 1 || summary.BasicEvents != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if len(summary.TopGates) != 1 || summary.TopGates[0] != "TOP" {
		t.Errorf("Unexpected top gates: %v", summary.TopGates)
	}
}

func TestHandleModelGraph(t *testing.T) {
	s := NewServer(0)
	s.SetTree(testTree(t))

	req := httptest.NewRequest("GET", "/api/model/graph", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var data GraphData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("Failed to decode graph: %v", err)
	}
	if len(data.Nodes) != 3 {
		t.Errorf("Expected 3 nodes, got %d", len(data.Nodes))
	}
	if len(data.Edges) != 2 {
		t.Errorf("Expected 2 edges, got %d", len(data.Edges))
	}
}

func TestHandleModelXML(t *testing.T) {
	s := NewServer(0)
	s.SetTree(testTree(t))

	req := httptest.NewRequest("GET", "/api/model/xml", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<opsa-mef>") ||
		!strings.Contains(body, "<define-gate name=\"TOP\">") {
		t.Errorf("Unexpected XML body:\n%s", body)
	}
}

func TestHandleModelXML_BadNest(t *testing.T) {
	s := NewServer(0)
	s.SetTree(testTree(t))

	req := httptest.NewRequest("GET", "/api/model/xml?nest=-1", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for negative nest, got %d", rec.Code)
	}
}

func TestHandleModelShorthand(t *testing.T) {
	s := NewServer(0)
	s.SetTree(testTree(t))

	req := httptest.NewRequest("GET", "/api/model/shorthand", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "TOP := (E1 & E2)") {
		t.Errorf("Unexpected shorthand body:\n%s", body)
	}
}
