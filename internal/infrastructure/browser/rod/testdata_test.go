package rod

// HTML fixtures served through httptest.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="loginForm" onsubmit="event.preventDefault(); document.getElementById('result').textContent = 'Submitted ' + this.username.value;">
		<input id="username" type="text" name="username" />
		<input id="password" type="password" name="password" />
		<input type="hidden" name="csrf" value="x" />
		<button type="submit">Sign in</button>
	</form>
	<div id="result"></div>
</body>
</html>`

	ButtonsHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="confirm" disabled>Confirm PIN</button>
	<div class="btn-primary" id="skip" onclick="document.getElementById('result').textContent = 'skipped'">Skip for 24 Hours</div>
	<button id="hidden" style="display:none">Later</button>
	<div id="cover" style="position:fixed;top:0;left:0;width:100%;height:100%;"></div>
	<div id="result"></div>
</body>
</html>`

	FramesHTML = `<!DOCTYPE html>
<html>
<body>
	<button>Main</button>
	<iframe id="f1" srcdoc="<button>Inner</button><iframe srcdoc='<button>Nested</button>'></iframe>"></iframe>
	<iframe id="f2" srcdoc="<button>Second</button>"></iframe>
</body>
</html>`

	ShadowHTML = `<!DOCTYPE html>
<html>
<body>
	<pin-dialog></pin-dialog>
	<div id="result"></div>
	<script>
		customElements.define('pin-dialog', class extends HTMLElement {
			constructor() {
				super();
				const root = this.attachShadow({mode: 'open'});
				root.innerHTML = '<input type="text" maxlength="1">' +
					'<button disabled>Confirm PIN</button><button id="s">Skip for 24 Hours</button>' +
					'<div class="btn-primary" id="later">Remind me later</div>';
				root.getElementById('s').addEventListener('click', () => {
					document.getElementById('result').textContent = 'shadow clicked';
				});
				root.getElementById('later').addEventListener('click', () => {
					document.getElementById('result').textContent = 'class button clicked';
				});
			}
		});
	</script>
</body>
</html>`

	// ShadowInputOnlyHTML has nothing to activate: a PIN cell inside a
	// shadow root.
	ShadowInputOnlyHTML = `<!DOCTYPE html>
<html>
<body>
	<pin-cells></pin-cells>
	<script>
		customElements.define('pin-cells', class extends HTMLElement {
			constructor() {
				super();
				this.attachShadow({mode: 'open'}).innerHTML = '<input type="text" maxlength="1"><input type="password">';
			}
		});
	</script>
</body>
</html>`

	PatientListHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="card">
		<div><span>"Clara"</span> <span>Iovino</span></div>
		<div>Canine • Pitbull</div>
		<div>23kg | 5y 0m | FS</div>
	</div>
	<script>var hiddenState = 'secret';</script>
</body>
</html>`
)
