package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const loginPage = `<!DOCTYPE html>
<html><body>
<h1>Sign in</h1>
%s
<form method="post" action="/login">
	<input type="email" name="email" placeholder="Email">
	<input type="password" name="password" placeholder="Password">
	<input type="hidden" name="csrf" value="token">
	<button type="submit">Log in</button>
</form>
</body></html>`

const setupPINPage = `<!DOCTYPE html>
<html><body>
<h2>Set up your PIN</h2>
<div id="cells">
	<input type="text" maxlength="1" oninput="log(this)">
	<input type="text" maxlength="1" oninput="log(this)">
	<input type="text" maxlength="1" oninput="log(this)">
	<input type="text" maxlength="1" oninput="log(this)">
	<input type="text" maxlength="1" oninput="log(this)">
</div>
<button disabled onclick="document.getElementById('result').textContent='confirmed'">Confirm PIN</button>
<button onclick="skip()">Skip for 24 Hours</button>
<div id="typed"></div>
<div id="result"></div>
<script>
function log(el) { document.getElementById('typed').textContent += el.value; }
function digits() {
	return Array.from(document.querySelectorAll('#cells input')).map(function (i) { return i.value; }).join('');
}
function skip() { location.href = '/patients?code=' + digits(); }
</script>
</body></html>`

const patientsPage = `<!DOCTYPE html>
<html><head><style>.hidden { display: none; }</style></head><body>
<div>
	<button onclick="show('panel')">Filter</button>
	<div id="panel" class="hidden">
		<button onclick="show('options')">Department</button>
		<div id="options" class="hidden">
			<button onclick="pick('cardio')">Cardiology</button>
			<button onclick="pick('neuro')">Neurology &amp; Neurosurgery</button>
		</div>
	</div>
</div>
<div id="list">
	<div class="card" data-dept="neuro">
		<div>"Clara" Iovino</div>
		<div>Canine • Pitbull</div>
		<div>23kg | 5y 0m | FS</div>
		<div>100 - Neuro Ph: 555-0101</div>
		<div>TL check q4h</div>
		<div>20 Monitoring Nursing Care +2</div>
		<div>Patient ID: 674131</div>
	</div>
	<div class="card" data-dept="neuro">
		<div>"Milo" Tran</div>
		<div>Feline • DSH</div>
		<div>4.5kg | 12y | MN</div>
		<div>101 - IP#1, T2</div>
	</div>
	<div class="card" data-dept="cardio">
		<div>"Rex" Doyle</div>
		<div>Canine • Boxer</div>
		<div>31kg | 9y | MN</div>
		<div>200 - Cardio</div>
	</div>
</div>
<script>
function show(id) { document.getElementById(id).classList.remove('hidden'); }
function pick(dept) {
	document.querySelectorAll('.card').forEach(function (c) {
		c.classList.toggle('hidden', c.dataset.dept !== dept);
	});
}
document.addEventListener('keydown', function (e) {
	if (e.key === 'Escape') { document.getElementById('panel').classList.add('hidden'); }
});
</script>
</body></html>`

const treatmentPage = `<!DOCTYPE html>
<html><body>
<h1 class="patient-name">Clara Iovino</h1>
<table><tbody>
<tr><td>Gabapentin</td><td>100mg</td><td>PO</td><td>q8h</td></tr>
<tr><td>Fentanyl CRI</td><td>3mcg/kg/hr</td><td>IV</td><td>CRI</td></tr>
</tbody></table>
<div class="fluids"><table><tbody><tr><td>LRS</td><td>40</td><td>ml/hr</td></tr></tbody></table></div>
<div class="alerts">TL check q4h</div>
</body></html>`

// vetradar is a stand-in for the hospital UI: a login form, the new-device
// PIN screen and the patient list.
type vetradar struct {
	*httptest.Server

	username, password string

	mu       sync.Mutex
	codes    []string
	attempts int
}

func newVetradar(t *testing.T, username, password string) *vetradar {
	t.Helper()
	v := &vetradar{username: username, password: password}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", v.login)
	mux.HandleFunc("/set_up_pin", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, setupPINPage)
	})
	mux.HandleFunc("/patients", func(w http.ResponseWriter, r *http.Request) {
		if code := r.URL.Query().Get("code"); code != "" {
			v.mu.Lock()
			v.codes = append(v.codes, code)
			v.mu.Unlock()
		}
		writeHTML(w, patientsPage)
	})

	mux.HandleFunc("/patient/674131/treatment", func(w http.ResponseWriter, r *http.Request) {
		writeHTML(w, treatmentPage)
	})

	v.Server = httptest.NewServer(mux)
	t.Cleanup(v.Close)
	return v
}

func (v *vetradar) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeHTML(w, fmt.Sprintf(loginPage, ""))
		return
	}
	v.mu.Lock()
	v.attempts++
	v.mu.Unlock()

	if r.FormValue("email") == v.username && r.FormValue("password") == v.password {
		http.Redirect(w, r, "/set_up_pin", http.StatusSeeOther)
		return
	}
	writeHTML(w, fmt.Sprintf(loginPage, "<p>Invalid email or password</p>"))
}

func (v *vetradar) submittedCodes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.codes...)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}
