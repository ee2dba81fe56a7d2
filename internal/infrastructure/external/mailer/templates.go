package mailer

import (
	"html/template"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// EMAIL TEMPLATES
// ══════════════════════════════════════════════════════════════════════════════

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #2d3a2e; max-width: 560px; margin: 0 auto;">
  <h2>Welcome to the Scholarship Review Board</h2>
  <p>Hi {{.Name}},</p>
  <p>You have been invited to join the scholarship review board. Sign in with
  the temporary password below; you will be asked to choose your own password
  on first sign-in.</p>
  <p><strong>Email:</strong> {{.Email}}<br>
  <strong>Temporary password:</strong> <code>{{.TempPassword}}</code></p>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Open the review hub</a></p>{{end}}
  <p>See you on the board,<br>The Scholarship Team</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #2d3a2e; max-width: 560px; margin: 0 auto;">
  <h2>Password reset</h2>
  <p>Hi {{.Name}},</p>
  <p>An administrator reset your review board password. Sign in with the
  temporary password below and choose a new one.</p>
  <p><strong>Temporary password:</strong> <code>{{.TempPassword}}</code></p>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Open the review hub</a></p>{{end}}
  <p>If you did not expect this, contact the board administrator.</p>
</body>
</html>`))

type templateData struct {
	Name         string
	Email        string
	TempPassword string
	AppURL       string
}

func renderWelcome(name, email, tempPassword, appURL string) (string, error) {
	var b strings.Builder
	err := welcomeTmpl.Execute(&b, templateData{
		Name:         name,
		Email:        email,
		TempPassword: tempPassword,
		AppURL:       appURL,
	})
	return b.String(), err
}

func renderPasswordReset(name, tempPassword, appURL string) (string, error) {
	var b strings.Builder
	err := passwordResetTmpl.Execute(&b, templateData{
		Name:         name,
		TempPassword: tempPassword,
		AppURL:       appURL,
	})
	return b.String(), err
}
