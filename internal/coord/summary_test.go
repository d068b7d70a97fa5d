package coord

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSummarize_Reference(t *testing.T) {
	g := referenceGeometry()
	s, err := Summarize(g)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := Summary{
		Name:        "reference",
		Geometry:    g,
		Affine:      Affine{AlphaX: 499500, GammaX: 5, AlphaY: 5999000, BetaY: 10},
		Orientation: Orientation{Azimuth: 90, InvertedAxis: true},
		Bins: BinMetrics{
			InlineBinSize: 10, CrlineBinSize: 5, Area: 8,
			InlineCount: 401, CrlineCount: 401,
			InlineStepDistance: 10, CrlineStepDistance: 5,
		},
		Corners: [4]MapPoint{
			{500000, 6000000},
			{502000, 6000000},
			{502000, 6004000},
			{500000, 6004000},
		},
	}
	if diff := cmp.Diff(want, s, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_JSONRoundTrip(t *testing.T) {
	s, err := Summarize(f3Geometry())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Summary
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(s, back); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}

	conv := back.Converter()
	e, n := conv.LineToCoord(100, 300)
	if !approxEqual(e, 605835.5, 1e-9) || !approxEqual(n, 6073556.4, 1e-9) {
		t.Errorf("restored converter LineToCoord(A) = (%v, %v)", e, n)
	}
}

func TestSummarize_Degenerate(t *testing.T) {
	g := referenceGeometry()
	g.B.Crline = g.A.Crline
	if _, err := Summarize(g); err == nil {
		t.Error("expected error for degenerate control points")
	}
}
