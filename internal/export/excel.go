// Package export renders batch results for the presentation side: an xlsx
// report for recruiters and a json dump for further tooling.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/talentscout/internal/screening"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Candidates"
	guidesSheet     = "Interview Guides"
)

// ToExcel writes the run results into an xlsx workbook with a summary
// sheet, a candidate table, and one section per interview guide. The .xlsx
// extension is appended when missing.
func ToExcel(result *screening.Result, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return "", fmt.Errorf("create candidates sheet: %w", err)
	}
	if _, err := f.NewSheet(guidesSheet); err != nil {
		return "", fmt.Errorf("create guides sheet: %w", err)
	}

	if err := writeSummary(f, result); err != nil {
		return "", fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeCandidates(f, result.Candidates); err != nil {
		return "", fmt.Errorf("write candidates sheet: %w", err)
	}
	if err := writeGuides(f, result.Shortlisted()); err != nil {
		return "", fmt.Errorf("write guides sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	return outputPath, nil
}

func writeSummary(f *excelize.File, result *screening.Result) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 60); err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", "Screening Report"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	rows := [][2]any{
		{"Run ID:", result.RunID},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Job Title:", result.Profile.Title},
		{"Required Experience:", result.Profile.Experience},
		{"Technical Skills:", strings.Join(result.Profile.TechSkills, ", ")},
		{"Soft Skills:", strings.Join(result.Profile.SoftSkills, ", ")},
		{"Candidates Evaluated:", len(result.Candidates)},
		{"Shortlisted:", len(result.Shortlisted())},
	}

	for i, row := range rows {
		n := i + 3
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", n), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", n), row[1]); err != nil {
			return err
		}
	}

	return nil
}

func writeCandidates(f *excelize.File, candidates []*screening.CandidateRecord) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	shortlistedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	widths := map[string]float64{"A": 6, "B": 24, "C": 28, "D": 8, "E": 12, "F": 50, "G": 35, "H": 24}
	for col, width := range widths {
		if err := f.SetColWidth(candidatesSheet, col, col, width); err != nil {
			return err
		}
	}

	headers := []string{"Rank", "Name", "Email", "Score", "Status", "Analysis", "Missing Skills", "Filename"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(candidatesSheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(candidatesSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, candidate := range candidates {
		row := i + 2
		values := []any{
			i + 1,
			candidate.Name,
			candidate.Email,
			candidate.Score,
			string(candidate.Status),
			candidate.Analysis,
			strings.Join(candidate.MissingSkills, ", "),
			candidate.Filename,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(candidatesSheet, cell, value); err != nil {
				return err
			}
		}

		if candidate.Status == screening.StatusShortlisted {
			if err := f.SetCellStyle(candidatesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), shortlistedStyle); err != nil {
				return err
			}
		}
	}

	if len(candidates) > 0 {
		if err := f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:H%d", len(candidates)+1), nil); err != nil {
			return err
		}
	}

	return nil
}

func writeGuides(f *excelize.File, shortlisted []*screening.CandidateRecord) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	widths := map[string]float64{"A": 24, "B": 22, "C": 80}
	for col, width := range widths {
		if err := f.SetColWidth(guidesSheet, col, col, width); err != nil {
			return err
		}
	}

	headers := []string{"Candidate", "Section", "Content"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(guidesSheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(guidesSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	row := 2
	for _, candidate := range shortlisted {
		if candidate.Guide == nil {
			continue
		}

		sections := [][2]string{
			{"Technical Questions", strings.Join(candidate.Guide.TechnicalQuestions, "\n")},
			{"Behavioral Questions", strings.Join(candidate.Guide.BehavioralQuestions, "\n")},
			{"Curveball", candidate.Guide.Curveball},
			{"Evaluation Rubric", candidate.Guide.EvaluationRubric},
		}

		for _, section := range sections {
			cells := []any{candidate.Name, section[0], section[1]}
			for col, value := range cells {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(guidesSheet, cell, value); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(guidesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), wrapStyle); err != nil {
				return err
			}
			row++
		}
	}

	return nil
}
