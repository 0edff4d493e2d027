package treatment

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vethub-sync/internal/domain/entity"
)

var ErrNoSheet = errors.New("treatment sheet not found on page")

const (
	sheetMarker    = ".treatment-row, .medication-row, table"
	medicationRows = ".treatment-row, .medication-row, tbody tr"
	fluidRows      = ".fluid-row, .fluids tr"
)

// ParseSheet reads medications, fluids and notes from a treatment page.
// Rows belonging to the fluids table are not counted as medications.
func ParseSheet(html string) (entity.TreatmentSheet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.TreatmentSheet{}, err
	}
	if doc.Find(sheetMarker).Length() == 0 {
		return entity.TreatmentSheet{}, ErrNoSheet
	}

	sheet := entity.TreatmentSheet{
		PatientName:  first(doc.Selection, ".patient-name, h1, h2"),
		NursingNotes: first(doc.Selection, `.nursing-notes, .notes, textarea[name="notes"]`),
		Concerns:     first(doc.Selection, ".concerns, .alerts"),
		Medications:  []entity.Medication{},
		Fluids:       []entity.Fluid{},
	}

	doc.Find(medicationRows).Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("fluid-row") || row.Closest(".fluids").Length() > 0 {
			return
		}
		med := entity.Medication{
			Name:      first(row, ".medication, .drug, td:nth-child(1)"),
			Dose:      first(row, ".dose, td:nth-child(2)"),
			Route:     first(row, ".route, td:nth-child(3)"),
			Frequency: first(row, ".frequency, td:nth-child(4)"),
			Time:      first(row, ".time, td:nth-child(5)"),
		}
		if med.Name != "" {
			sheet.Medications = append(sheet.Medications, med)
		}
	})

	doc.Find(fluidRows).Each(func(_ int, row *goquery.Selection) {
		fluid := entity.Fluid{
			Type:  first(row, ".fluid-type, td:nth-child(1)"),
			Rate:  first(row, ".rate, td:nth-child(2)"),
			Units: first(row, ".units, td:nth-child(3)"),
		}
		if fluid.Type != "" {
			sheet.Fluids = append(sheet.Fluids, fluid)
		}
	})
	return sheet, nil
}

func first(s *goquery.Selection, css string) string {
	return strings.TrimSpace(s.Find(css).First().Text())
}
