package treatment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vethub-sync/internal/domain/entity"
)

const treatmentHTML = `<html><body>
<h1 class="patient-name">"Clara" Iovino</h1>
<table class="medications">
  <thead><tr><th>Drug</th><th>Dose</th></tr></thead>
  <tbody>
    <tr><td>Gabapentin</td><td>100mg</td><td>PO</td><td>q8h</td><td>08:00</td></tr>
    <tr><td>Fentanyl CRI</td><td>3mcg/kg/hr</td><td>IV</td><td>CRI</td><td></td></tr>
    <tr><td></td><td>orphan dose</td></tr>
  </tbody>
</table>
<div class="fluids"><table><tbody>
  <tr><td>LRS</td><td>40</td><td>ml/hr</td></tr>
</tbody></table></div>
<div class="nursing-notes">Turn q4h</div>
<div class="alerts">Bites</div>
</body></html>`

func TestParseSheet(t *testing.T) {
	sheet, err := ParseSheet(treatmentHTML)
	require.NoError(t, err)

	assert.Equal(t, `"Clara" Iovino`, sheet.PatientName)
	assert.Equal(t, []entity.Medication{
		{Name: "Gabapentin", Dose: "100mg", Route: "PO", Frequency: "q8h", Time: "08:00"},
		{Name: "Fentanyl CRI", Dose: "3mcg/kg/hr", Route: "IV", Frequency: "CRI"},
	}, sheet.Medications)
	assert.Equal(t, []entity.Fluid{{Type: "LRS", Rate: "40", Units: "ml/hr"}}, sheet.Fluids)
	assert.Equal(t, "Turn q4h", sheet.NursingNotes)
	assert.Equal(t, "Bites", sheet.Concerns)
}

func TestParseSheet_ClassRows(t *testing.T) {
	sheet, err := ParseSheet(`<div class="medication-row"><span class="drug">Maropitant</span>
<span class="dose">1mg/kg</span><span class="route">IV</span><span class="frequency">q24h</span></div>`)
	require.NoError(t, err)

	require.Len(t, sheet.Medications, 1)
	assert.Equal(t, entity.Medication{Name: "Maropitant", Dose: "1mg/kg", Route: "IV", Frequency: "q24h"}, sheet.Medications[0])
	assert.Empty(t, sheet.Fluids)
}

func TestParseSheet_NoSheet(t *testing.T) {
	_, err := ParseSheet(`<html><body><p>Session expired</p></body></html>`)
	assert.ErrorIs(t, err, ErrNoSheet)
}
