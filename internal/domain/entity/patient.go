package entity

import (
	"strconv"
	"strings"
)

// Patient is one card scraped from the hospital system's patient list.
type Patient struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed,omitempty"`
	Age           string   `json:"age"`
	Sex           string   `json:"sex"`
	WeightKg      float64  `json:"weight_kg"`
	Location      string   `json:"location"`
	Status        string   `json:"status"`
	CriticalNotes []string `json:"critical_notes,omitempty"`
	Treatments    []string `json:"treatments,omitempty"`
	PatientID     string   `json:"patient_id,omitempty"`
	ConsultNumber string   `json:"consult_number,omitempty"`
}

// Signalment formats "species, age, sex, weight" for rounding sheets,
// leaving out anything unknown.
func (p Patient) Signalment() string {
	var parts []string
	for _, s := range []string{p.Species, p.Age, p.Sex} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if p.WeightKg > 0 {
		parts = append(parts, strconv.FormatFloat(p.WeightKg, 'f', -1, 64)+"kg")
	}
	return strings.Join(parts, ", ")
}
