package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/talentscout/internal/screening"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *screening.Result {
	return &screening.Result{
		RunID: "run-1",
		Profile: &screening.JobProfile{
			Title:      "Senior Backend Engineer",
			TechSkills: []string{"Go", "Kubernetes"},
			Experience: "5+ years",
			SoftSkills: []string{},
		},
		Candidates: []*screening.CandidateRecord{
			{
				Name:          "Alice",
				Email:         "alice@example.com",
				Score:         85,
				Analysis:      "Excellent fit.",
				MissingSkills: []string{},
				Filename:      "alice.pdf",
				Status:        screening.StatusShortlisted,
				Guide: &screening.InterviewGuide{
					TechnicalQuestions:  []string{"q1", "q2", "q3"},
					BehavioralQuestions: []string{"b1", "b2"},
					Curveball:           "c",
					EvaluationRubric:    "r",
				},
			},
			{
				Name:          "Bob",
				Email:         "bob@example.com",
				Score:         40,
				Analysis:      "Junior profile.",
				MissingSkills: []string{"Kubernetes"},
				Filename:      "bob.pdf",
				Status:        screening.StatusRejected,
			},
		},
	}
}

func TestToExcelWritesReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := ToExcel(sampleResult(), filepath.Join(dir, "report"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Ext(path) != ".xlsx" {
		t.Fatalf("expected .xlsx extension, got %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening report: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Summary", "B5")
	if err != nil {
		t.Fatalf("reading job title cell: %v", err)
	}
	if title != "Senior Backend Engineer" {
		t.Fatalf("unexpected job title: %q", title)
	}

	name, err := f.GetCellValue("Candidates", "B2")
	if err != nil {
		t.Fatalf("reading candidate cell: %v", err)
	}
	if name != "Alice" {
		t.Fatalf("expected first candidate Alice, got %q", name)
	}

	status, err := f.GetCellValue("Candidates", "E3")
	if err != nil {
		t.Fatalf("reading status cell: %v", err)
	}
	if status != "Rejected" {
		t.Fatalf("expected Rejected status for second candidate, got %q", status)
	}

	section, err := f.GetCellValue("Interview Guides", "B2")
	if err != nil {
		t.Fatalf("reading guide section cell: %v", err)
	}
	if section != "Technical Questions" {
		t.Fatalf("unexpected guide section: %q", section)
	}
}

func TestToTmpJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path, err := ToTmpJSON(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var decoded screening.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding dump: %v", err)
	}

	if decoded.RunID != "run-1" || len(decoded.Candidates) != 2 {
		t.Fatalf("unexpected dump contents: %+v", decoded)
	}

	if decoded.Candidates[1].Guide != nil {
		t.Fatalf("expected guide omitted for rejected candidate")
	}
}
