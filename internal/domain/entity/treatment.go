package entity

// Medication is one row of a patient's treatment sheet.
type Medication struct {
	Name      string `json:"medication"`
	Dose      string `json:"dose"`
	Route     string `json:"route"`
	Frequency string `json:"frequency"`
	Time      string `json:"time,omitempty"`
}

type Fluid struct {
	Type  string `json:"type"`
	Rate  string `json:"rate"`
	Units string `json:"units"`
}

// TreatmentSheet is the treatment page of one patient. Demographics are only
// set when the patient was found in the last imported snapshot.
type TreatmentSheet struct {
	PatientID    string       `json:"patient_id"`
	PatientName  string       `json:"patient_name"`
	Patient      *Patient     `json:"patient,omitempty"`
	Medications  []Medication `json:"medications"`
	Fluids       []Fluid      `json:"fluids"`
	NursingNotes string       `json:"nursing_notes,omitempty"`
	Concerns     string       `json:"concerns,omitempty"`
}

// RoundingData is the pre-filled rounding sheet row for a patient. Fields
// needing a clinician are left empty.
type RoundingData struct {
	Signalment         string `json:"signalment"`
	Location           string `json:"location"`
	Therapeutics       string `json:"therapeutics"`
	Fluids             string `json:"fluids"`
	IVC                string `json:"ivc"`
	CRI                string `json:"cri"`
	Problems           string `json:"problems"`
	Concerns           string `json:"concerns"`
	CodeStatus         string `json:"code_status"`
	ICUCriteria        string `json:"icu_criteria"`
	Neurolocalization  string `json:"neurolocalization"`
	DiagnosticFindings string `json:"diagnostic_findings"`
	OvernightDx        string `json:"overnight_dx"`
	Comments           string `json:"comments"`
}

type TreatmentReport struct {
	Sheet    TreatmentSheet `json:"treatment_sheet"`
	Rounding RoundingData   `json:"rounding_data"`
}
