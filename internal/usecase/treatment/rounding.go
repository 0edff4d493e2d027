package treatment

import (
	"strings"

	"vethub-sync/internal/domain/entity"
)

const importedComment = "Imported from VetRadar - Please review and complete missing fields"

var (
	fluidKeywords = []string{"lrs", "lactated ringer", "saline", "normosol", "plasmalyte", "fluid"}
	criKeywords   = []string{"cri", "fentanyl", "lidocaine", "ketamine"}
)

// Rounding pre-fills a rounding sheet row. IVC is inferred from any running
// fluid, CRI from infusion drugs; clinical judgement fields stay empty.
func Rounding(sheet entity.TreatmentSheet) entity.RoundingData {
	rd := entity.RoundingData{
		CodeStatus: "Yellow",
		Comments:   importedComment,
	}

	if p := sheet.Patient; p != nil {
		rd.Signalment = p.Signalment()
		rd.Location = ward(p.Location)
		rd.Problems = strings.Join(p.CriticalNotes, "\n")
		rd.CodeStatus = codeStatus(p.Status)
	}

	var therapeutics, fluids []string
	cri := false
	for _, med := range sheet.Medications {
		line := join(" ", med.Name, med.Dose, med.Route, med.Frequency)
		therapeutics = append(therapeutics, line)

		name := strings.ToLower(med.Name)
		if containsAny(name, fluidKeywords) {
			fluids = append(fluids, line)
		}
		if containsAny(name, criKeywords) || strings.Contains(strings.ToLower(med.Frequency), "cri") ||
			(strings.Contains(name, "infusion") && !strings.Contains(name, "fluid")) {
			cri = true
		}
	}
	for _, f := range sheet.Fluids {
		rate := join(" ", f.Rate, f.Units)
		if rate == "" {
			fluids = append(fluids, f.Type)
			continue
		}
		fluids = append(fluids, f.Type+" at "+rate)
	}

	rd.Therapeutics = strings.Join(therapeutics, "; ")
	rd.Fluids = strings.Join(fluids, "; ")
	rd.IVC = yesNo(len(fluids) > 0)
	rd.CRI = yesNo(cri)
	rd.Concerns = join(" | ", sheet.Concerns, sheet.NursingNotes)
	return rd
}

// ward maps a VetRadar location such as "100 - IP#1, R16" to ICU or IP.
func ward(location string) string {
	switch {
	case location == "":
		return ""
	case strings.Contains(strings.ToLower(location), "icu"):
		return "ICU"
	default:
		return "IP"
	}
}

func codeStatus(status string) string {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "critical"), strings.Contains(s, "caution"):
		return "Orange"
	case strings.Contains(s, "friendly"), strings.Contains(s, "stable"):
		return "Green"
	default:
		return "Yellow"
	}
}

func join(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
