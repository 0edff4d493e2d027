package treatment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vethub-sync/internal/domain/entity"
)

func TestRounding(t *testing.T) {
	sheet := entity.TreatmentSheet{
		Patient: &entity.Patient{
			Species: "Canine", Age: "5y 0m", Sex: "FS", WeightKg: 23,
			Location:      "100 - IP#1, R16",
			Status:        "Caution",
			CriticalNotes: []string{"TL check q4h", "MRI tomorrow 9am"},
		},
		Medications: []entity.Medication{
			{Name: "Gabapentin", Dose: "100mg", Route: "PO", Frequency: "q8h"},
			{Name: "Fentanyl", Dose: "3mcg/kg/hr", Route: "IV"},
		},
		Fluids:       []entity.Fluid{{Type: "LRS", Rate: "40", Units: "ml/hr"}},
		Concerns:     "Bites",
		NursingNotes: "Turn q4h",
	}

	rd := Rounding(sheet)
	assert.Equal(t, "Canine, 5y 0m, FS, 23kg", rd.Signalment)
	assert.Equal(t, "IP", rd.Location)
	assert.Equal(t, "Gabapentin 100mg PO q8h; Fentanyl 3mcg/kg/hr IV", rd.Therapeutics)
	assert.Equal(t, "LRS at 40 ml/hr", rd.Fluids)
	assert.Equal(t, "Y", rd.IVC)
	assert.Equal(t, "Y", rd.CRI)
	assert.Equal(t, "TL check q4h\nMRI tomorrow 9am", rd.Problems)
	assert.Equal(t, "Bites | Turn q4h", rd.Concerns)
	assert.Equal(t, "Orange", rd.CodeStatus)
	assert.Equal(t, importedComment, rd.Comments)
	assert.Empty(t, rd.Neurolocalization)
}

func TestRounding_Defaults(t *testing.T) {
	rd := Rounding(entity.TreatmentSheet{
		Medications: []entity.Medication{{Name: "0.9% Saline", Dose: "20ml/hr", Route: "IV"}},
	})
	assert.Empty(t, rd.Signalment)
	assert.Empty(t, rd.Location)
	assert.Equal(t, "0.9% Saline 20ml/hr IV", rd.Fluids)
	assert.Equal(t, "Y", rd.IVC)
	assert.Equal(t, "N", rd.CRI)
	assert.Equal(t, "Yellow", rd.CodeStatus)
}

func TestWard(t *testing.T) {
	assert.Equal(t, "ICU", ward("ICU, Cage 5"))
	assert.Equal(t, "IP", ward("100 - Neuro"))
	assert.Empty(t, ward(""))
}

func TestCodeStatus(t *testing.T) {
	assert.Equal(t, "Orange", codeStatus("CRITICAL"))
	assert.Equal(t, "Green", codeStatus("Friendly"))
	assert.Equal(t, "Yellow", codeStatus("Active"))
}
