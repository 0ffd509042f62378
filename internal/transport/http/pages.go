package http

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>{{.AppName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: #0b3d5c; color: #fff; min-height: 100vh; display: flex; flex-direction: column; }
header { flex: 1; padding: 60px 20px; text-align: center; }
button { margin: 8px; padding: 10px 22px; font-size: 15px; border: none; border-radius: 4px; cursor: pointer; background: rgba(255,255,255,0.2); color: #fff; }
.panel { display: none; background: #fff; color: #222; margin: 20px auto; padding: 24px; border-radius: 8px; max-width: 380px; text-align: left; }
input { width: 100%; box-sizing: border-box; padding: 9px; margin: 6px 0; border: 1px solid #bbb; border-radius: 4px; }
.panel button { background: #0b3d5c; }
#status { min-height: 1.2em; margin-top: 12px; }
</style>
</head>
<body>
<header>
  <h1>{{.AppName}}</h1>
  <p>Tour schedules, faculty directory and trip votes for your campus.</p>
  <button onclick="show('login')">Sign in</button>
  <button onclick="show('register')">Register</button>
  <button onclick="show('forgot')">Forgot password</button>

  <form id="login" class="panel" onsubmit="return submitJSON(event, '/api/auth/login', signedIn)">
    <input name="studentID" placeholder="Student ID or FACULTY handle" required />
    <input type="password" name="password" placeholder="Password" required />
    <button type="submit">Sign in</button>
  </form>
  <form id="register" class="panel" onsubmit="return submitJSON(event, '/api/auth/register', signedIn)">
    <input name="name" placeholder="Full name" required />
    <input type="email" name="email" placeholder="Email" required />
    <input name="studentID" placeholder="Student ID" required />
    <input type="password" name="password" placeholder="Password (min 6)" minlength="6" required />
    <button type="submit">Create account</button>
  </form>
  <form id="forgot" class="panel" onsubmit="return submitJSON(event, '/api/auth/forgot-password', otpSent)">
    <input name="studentID" placeholder="Student ID" required />
    <button type="submit">Email me a code</button>
  </form>
  <form id="verify" class="panel" onsubmit="return submitJSON(event, '/api/auth/verify-otp', otpVerified)">
    <input type="email" name="email" placeholder="Email" required />
    <input name="otp" placeholder="6-digit code" required />
    <button type="submit">Verify</button>
  </form>
  <form id="reset" class="panel" onsubmit="return submitJSON(event, '/api/auth/reset-password', passwordReset)">
    <input type="hidden" name="resetToken" />
    <input type="password" name="newPassword" placeholder="New password" minlength="6" required />
    <input type="password" name="confirmPassword" placeholder="Confirm password" required />
    <button type="submit">Reset password</button>
  </form>
  <div id="status"></div>
</header>
<script>
function show(id) {
  document.querySelectorAll('.panel').forEach(p => p.style.display = 'none');
  document.getElementById(id).style.display = 'block';
}
function status(text) { document.getElementById('status').textContent = text; }
async function submitJSON(event, url, onSuccess) {
  event.preventDefault();
  const body = Object.fromEntries(new FormData(event.target).entries());
  const response = await fetch(url, {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(body)
  });
  const payload = await response.json();
  if (!response.ok) {
    status(payload.message || 'Request failed');
    return false;
  }
  onSuccess(payload.data || {});
  return false;
}
function signedIn(data) {
  localStorage.setItem('accessToken', data.accessToken);
  localStorage.setItem('refreshToken', data.refreshToken);
  status('Signed in as ' + data.user.name);
}
function otpSent(data) {
  document.querySelector('#verify [name=email]').value = data.email;
  status('Code sent to ' + data.maskedEmail);
  show('verify');
}
function otpVerified(data) {
  document.querySelector('#reset [name=resetToken]').value = data.resetToken;
  show('reset');
}
function passwordReset() {
  status('Password updated. Sign in with your new password.');
  show('login');
}
</script>
</body>
</html>`))

// RegisterPages serves the browser landing page at /.
func RegisterPages(e *echo.Echo, appName string) {
	if appName == "" {
		appName = "Campus Tours"
	}
	var buf bytes.Buffer
	if err := landingPage.Execute(&buf, struct{ AppName string }{appName}); err != nil {
		panic(err)
	}
	html := buf.String()
	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, html)
	})
}
