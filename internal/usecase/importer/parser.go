package importer

import (
	"regexp"
	"strconv"
	"strings"

	"vethub-sync/internal/domain/entity"
)

var (
	cardStartRe    = regexp.MustCompile(`"[A-Z]`)
	nameRe         = regexp.MustCompile(`"([^"]+)"\s+([^\n]+)`)
	speciesRe      = regexp.MustCompile(`(Canine|Feline)\s*•\s*([^\n]+)`)
	demographicsRe = regexp.MustCompile(`(\d+\.?\d*)\s*kg\s*\|\s*(\d+y\s+\d+m|\d+y|\d+m)\s*\|\s*(MN|MC|M|FS|FC|F)`)
	locationRe     = regexp.MustCompile(`(?m)(\d+\s*-\s*[^\n]+?)(?:\s*Ph:|$)`)
	treatmentRe    = regexp.MustCompile(`(\d+)\s+(Monitoring|Nursing Care|Medications|Fluids|Procedures)(?:[ \t]+([^\n]+))?`)
	patientIDRe    = regexp.MustCompile(`(?i)Patient ID:\s*(\d+)`)
	consultRe      = regexp.MustCompile(`(?i)Consult\s*[#:]?\s*(\d+)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)

	noteRes = []*regexp.Regexp{
		regexp.MustCompile(`TL [^\n]+`),
		regexp.MustCompile(`ALERT [^\n]+`),
		regexp.MustCompile(`checked in [^\n]+`),
		regexp.MustCompile(`(?i)(?:MRI|SX|surgery|procedure) [^\n]+`),
	}
)

const activeStatus = "Active"

// ParsePatients extracts patient cards from the visible text of the patient
// list. Cards start at a quoted name ("Clara" Iovino) and must mention the
// species. Repeated names keep their first card; the second return value
// counts the dropped repeats.
func ParsePatients(text string) ([]entity.Patient, int) {
	var (
		patients   []entity.Patient
		seen       = make(map[string]bool)
		duplicates int
	)

	for _, block := range splitCards(text) {
		if !strings.Contains(block, "Canine") && !strings.Contains(block, "Feline") {
			continue
		}
		p, ok := parseCard(block)
		if !ok {
			continue
		}
		if seen[p.Name] {
			duplicates++
			continue
		}
		seen[p.Name] = true
		patients = append(patients, p)
	}
	return patients, duplicates
}

// splitCards cuts text before every quote that opens a capitalised name.
func splitCards(text string) []string {
	idx := cardStartRe.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return []string{text}
	}

	blocks := make([]string, 0, len(idx)+1)
	if idx[0][0] > 0 {
		blocks = append(blocks, text[:idx[0][0]])
	}
	for i, loc := range idx {
		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		blocks = append(blocks, text[loc[0]:end])
	}
	return blocks
}

func parseCard(block string) (entity.Patient, bool) {
	m := nameRe.FindStringSubmatch(block)
	if m == nil {
		return entity.Patient{}, false
	}
	name := strings.TrimSpace(m[1]) + " " + strings.TrimSpace(m[2])

	p := entity.Patient{
		ID:     strings.ToLower(whitespaceRe.ReplaceAllString(name, "-")),
		Name:   name,
		Status: activeStatus,
	}

	if m := speciesRe.FindStringSubmatch(block); m != nil {
		p.Species = m[1]
		p.Breed = strings.TrimSpace(m[2])
	}
	if m := demographicsRe.FindStringSubmatch(block); m != nil {
		p.WeightKg, _ = strconv.ParseFloat(m[1], 64)
		p.Age = strings.TrimSpace(m[2])
		p.Sex = m[3]
	}
	if m := locationRe.FindStringSubmatch(block); m != nil {
		p.Location = strings.TrimSpace(m[1])
	}
	for _, re := range noteRes {
		p.CriticalNotes = append(p.CriticalNotes, re.FindAllString(block, -1)...)
	}
	for _, m := range treatmentRe.FindAllStringSubmatch(block, -1) {
		t := m[1] + " " + m[2]
		if m[3] != "" {
			t += " " + m[3]
		}
		p.Treatments = append(p.Treatments, t)
	}
	if m := patientIDRe.FindStringSubmatch(block); m != nil {
		p.PatientID = m[1]
	}
	if m := consultRe.FindStringSubmatch(block); m != nil {
		p.ConsultNumber = m[1]
	}
	return p, true
}
