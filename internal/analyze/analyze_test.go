package analyze

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/steelquote/internal/project"
)

const harborDoc = `Project: Harbor Logistics Hub
Client: Meridian Construction
Timeline: 5 weeks
Scope includes 40 shop drawings for the warehouse frame. Later revised to 55 GA drawings.
Complexity: 4
Seismic bracing and moment connection design required. Clash review in Navisworks.`

func TestAnalyzeDocument(t *testing.T) {
	r := Analyze(harborDoc)
	a := r.Attributes

	if a.DrawingCount != 55 {
		t.Errorf("DrawingCount = %d, want 55", a.DrawingCount)
	}
	if a.TimelineWeeks != 5 {
		t.Errorf("TimelineWeeks = %d, want 5", a.TimelineWeeks)
	}
	if a.Complexity != 4 {
		t.Errorf("Complexity = %d, want 4", a.Complexity)
	}
	if a.RevisionRisk != 2 {
		t.Errorf("RevisionRisk = %d, want 2", a.RevisionRisk)
	}
	if a.Type != project.TypeIndustrial {
		t.Errorf("Type = %s, want industrial", a.Type)
	}
	if a.ClientName != "Meridian Construction" {
		t.Errorf("ClientName = %q", a.ClientName)
	}
	if !r.ClientDetected() {
		t.Error("expected client to be detected")
	}
	if a.Requirements != harborDoc {
		t.Error("expected requirements to carry the document text")
	}

	wantServices := []project.Service{project.ServiceConnectionDesign, project.ServiceClashReview, project.ServiceBIMCoordination}
	if !reflect.DeepEqual(r.InferredServices, wantServices) {
		t.Errorf("InferredServices = %v, want %v", r.InferredServices, wantServices)
	}
	if !reflect.DeepEqual(a.Services, wantServices) {
		t.Errorf("Services = %v, want %v", a.Services, wantServices)
	}

	wantMethods := map[Field]Method{
		FieldDrawingCount: MethodDetected,
		FieldTimeline:     MethodDetected,
		FieldComplexity:   MethodDetected,
		FieldRevisionRisk: MethodEstimated,
		FieldProjectType:  MethodEstimated,
		FieldClientName:   MethodDetected,
	}
	if !reflect.DeepEqual(r.Methods, wantMethods) {
		t.Errorf("Methods = %v, want %v", r.Methods, wantMethods)
	}

	wantLines := []string{
		"Drawing count detected in document: 55 drawings.",
		"Timeline detected: 5 weeks.",
		"Complexity detected from label: 4/5.",
		"Revision risk inferred from scope keywords: 2/5.",
		"Project type inferred: industrial.",
		"Client name detected: Meridian Construction.",
	}
	if got := r.Lines(); !reflect.DeepEqual(got, wantLines) {
		t.Errorf("Lines() =\n%q\nwant\n%q", got, wantLines)
	}
}

func TestAnalyzeJoinedLines(t *testing.T) {
	r := Analyze(strings.ReplaceAll(harborDoc, "\n", " "))
	a := r.Attributes

	if a.DrawingCount != 55 || a.TimelineWeeks != 5 || a.Complexity != 4 || a.RevisionRisk != 2 {
		t.Errorf("numeric attributes = %d/%d/%d/%d, want 55/5/4/2",
			a.DrawingCount, a.TimelineWeeks, a.Complexity, a.RevisionRisk)
	}
	if a.Type != project.TypeIndustrial {
		t.Errorf("Type = %s, want industrial", a.Type)
	}
	// "Complexity:" follows a sentence break and still counts as a label
	if r.Methods[FieldComplexity] != MethodDetected {
		t.Errorf("complexity method = %s, want detected", r.Methods[FieldComplexity])
	}
	// "Client:" now sits mid-sentence, so the whole text is the first line
	// and the project header supplies the name
	if !strings.HasPrefix(a.ClientName, "Harbor Logistics Hub") {
		t.Errorf("ClientName = %q, want prefix Harbor Logistics Hub", a.ClientName)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	r := Analyze("")
	a := r.Attributes

	if a.DrawingCount != 15 || a.TimelineWeeks != 8 || a.Complexity != 2 || a.RevisionRisk != 2 {
		t.Errorf("numeric attributes = %d/%d/%d/%d, want 15/8/2/2",
			a.DrawingCount, a.TimelineWeeks, a.Complexity, a.RevisionRisk)
	}
	if a.Type != project.TypeCommercial {
		t.Errorf("Type = %s, want commercial", a.Type)
	}
	if a.ClientName != "" || r.ClientDetected() {
		t.Errorf("ClientName = %q, want none", a.ClientName)
	}
	if len(a.Services) != 0 {
		t.Errorf("Services = %v, want none", a.Services)
	}

	if len(r.Findings) != len(FieldOrder) {
		t.Fatalf("got %d findings, want %d", len(r.Findings), len(FieldOrder))
	}
	wantMethods := []Method{MethodEstimated, MethodDefaulted, MethodEstimated, MethodEstimated, MethodDefaulted, MethodDefaulted}
	for i, f := range r.Findings {
		if f.Field != FieldOrder[i] {
			t.Errorf("finding %d field = %s, want %s", i, f.Field, FieldOrder[i])
		}
		if f.Method != wantMethods[i] {
			t.Errorf("finding %d method = %s, want %s", i, f.Method, wantMethods[i])
		}
		if !f.Method.Valid() {
			t.Errorf("finding %d has invalid method %q", i, f.Method)
		}
	}
	if r.Findings[1].Text != "Timeline not stated; defaulted to 8 weeks." {
		t.Errorf("timeline finding = %q", r.Findings[1].Text)
	}
	if r.Findings[5].Text != "Client name not detected." {
		t.Errorf("client finding = %q", r.Findings[5].Text)
	}
}

func TestAnalyzeSingularDrawing(t *testing.T) {
	r := Analyze("Issue 1 drawing. Timeline: 1 week")
	if got := r.Findings[0].Text; got != "Drawing count detected in document: 1 drawing." {
		t.Errorf("drawing finding = %q", got)
	}
	if got := r.Findings[1].Text; got != "Timeline detected: 1 week." {
		t.Errorf("timeline finding = %q", got)
	}
}

func TestAnalyzeIsFresh(t *testing.T) {
	first := Analyze(harborDoc)
	second := Analyze("Residential apartment block, 10 drawings")
	if second.Attributes.ClientName != "" {
		t.Errorf("second analysis inherited client %q", second.Attributes.ClientName)
	}
	if second.Attributes.Type != project.TypeResidential {
		t.Errorf("Type = %s, want residential", second.Attributes.Type)
	}
	if first.Attributes.DrawingCount != 55 {
		t.Error("first result was modified by a later analysis")
	}
}

func TestAnalyzeAttributesWithinBounds(t *testing.T) {
	docs := []string{
		"",
		harborDoc,
		"Complexity: 99. Risk: -3. Timeline: 0 days. 0 drawings",
		strings.Repeat("industrial seismic truss clash ifc bim stair. ", 100),
		"9999 drawings over 400 weeks",
	}
	for _, doc := range docs {
		a := Analyze(doc).Attributes
		if a.DrawingCount < 1 || a.TimelineWeeks < 1 {
			t.Errorf("Analyze(%.30q): drawings %d weeks %d below 1", doc, a.DrawingCount, a.TimelineWeeks)
		}
		if a.Complexity < project.MinScore || a.Complexity > project.MaxScore {
			t.Errorf("Analyze(%.30q): complexity %d out of range", doc, a.Complexity)
		}
		if a.RevisionRisk < project.MinScore || a.RevisionRisk > project.MaxScore {
			t.Errorf("Analyze(%.30q): revision risk %d out of range", doc, a.RevisionRisk)
		}
		if !a.Type.Valid() {
			t.Errorf("Analyze(%.30q): invalid type %q", doc, a.Type)
		}
	}
}
