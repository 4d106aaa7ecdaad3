// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerificationEmailData holds data for the account verification email.
type VerificationEmailData struct {
	SiteName   string
	Name       string
	Token      string
	VerifyLink string // optional; GET /users/verify/{token}
}

// BuildVerificationEmail creates the verification email with both HTML and text bodies.
func BuildVerificationEmail(to string, data VerificationEmailData) Email {
	return Email{
		To:       to,
		Subject:  "Please verify your email address",
		TextBody: buildVerificationText(data),
		HTMLBody: buildVerificationHTML(data),
	}
}

func buildVerificationText(data VerificationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hello %s,\n\n", data.Name)
	fmt.Fprintf(&buf, "Thanks for joining %s. Your verification code is: %s\n\n", data.SiteName, data.Token)
	if data.VerifyLink != "" {
		buf.WriteString("Or open this link to verify your account:\n")
		buf.WriteString(data.VerifyLink + "\n\n")
	}
	buf.WriteString("If you did not create an account, you can safely ignore this email.\n")
	return buf.String()
}

var verificationTmpl = template.Must(template.New("verification").Parse(verificationHTMLTemplate))

func buildVerificationHTML(data VerificationEmailData) string {
	var buf bytes.Buffer
	_ = verificationTmpl.Execute(&buf, data)
	return buf.String()
}

const verificationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Verify your email</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 16px; text-align: center;">
              <h1 style="margin: 0; font-size: 22px; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px 32px;">
              <p style="font-size: 16px; color: #374151;">Hello {{.Name}},</p>
              <p style="font-size: 16px; color: #374151;">Please verify your email address with this code:</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 20px; text-align: center;">
                <span style="font-size: 30px; font-weight: 700; letter-spacing: 6px; font-family: 'Courier New', monospace;">{{.Token}}</span>
              </div>
              {{if .VerifyLink}}
              <p style="text-align: center; margin-top: 24px;">
                <a href="{{.VerifyLink}}" style="background-color: #0f766e; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Verify email</a>
              </p>
              {{end}}
              <p style="font-size: 13px; color: #6b7280;">If you did not create an account, you can ignore this email.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
