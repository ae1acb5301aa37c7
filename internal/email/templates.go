package email

import "html/template"

// Shared shell for all outgoing mail. Kept table-free and minimal so it
// renders consistently across clients.
const (
	shellHead = `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; background:#f5f5f7; margin:0; padding:40px 0;">
  <div style="max-width:460px; margin:0 auto; background:#ffffff; border-radius:16px; padding:32px; color:#1a1a1a;">
    <div style="font-size:20px; font-weight:800; text-align:center; padding-bottom:16px; border-bottom:1px solid #f0f0f0;">SplitApp.</div>
    <div style="padding-top:24px; text-align:center;">`

	shellFoot = `</div>
    <div style="padding-top:24px; text-align:center; font-size:12px; color:#999;">Secured by SplitApp Inc.</div>
  </div>
</body>
</html>`
)

func mustShell(name, inner string) *template.Template {
	return template.Must(template.New(name).Parse(shellHead + inner + shellFoot))
}

var otpTemplate = mustShell("otp", `
<h1 style="margin:0 0 10px 0;">Verify your email</h1>
<p style="color:#666;">Hi {{.Username}}, use this code to sign in.</p>
<div style="font-family:monospace; font-size:32px; font-weight:700; letter-spacing:4px; background:#f5f5f7; padding:20px; border-radius:12px;">{{.OTP}}</div>
<p style="font-size:12px; color:#888;">This code expires in 10 minutes.</p>`)

var expenseOwedTemplate = mustShell("expense_owed", `
<h1 style="margin:0 0 10px 0;">New Expense</h1>
<p style="color:#666;"><b>{{.PayerName}}</b> paid for <b>{{.Description}}</b> in {{.GroupName}}.</p>
<p style="font-size:28px; font-weight:700; color:#ef4444;">Your share: {{.Amount}}</p>`)

var expensePaidTemplate = mustShell("expense_paid", `
<h1 style="margin:0 0 10px 0;">Expense Added</h1>
<p style="color:#666;">You added <b>{{.Description}}</b> to <b>{{.GroupName}}</b>.</p>
<p style="font-size:28px; font-weight:700;">Total paid: {{.Amount}}</p>`)

var settlementReceivedTemplate = mustShell("settlement_received", `
<h1 style="margin:0 0 10px 0;">Payment Received</h1>
<p style="color:#666;"><b>{{.PayerName}}</b> settled up with you.</p>
<p style="font-size:28px; font-weight:700; color:#10b981;">+ {{.Amount}}</p>`)

var settlementSentTemplate = mustShell("settlement_sent", `
<h1 style="margin:0 0 10px 0;">Payment Sent</h1>
<p style="color:#666;">You paid <b>{{.ReceiverName}}</b>.</p>
<p style="font-size:28px; font-weight:700; color:#2563eb;">- {{.Amount}}</p>`)

var groupWelcomeTemplate = mustShell("group_welcome", `
<h1 style="margin:0 0 10px 0;">Welcome aboard</h1>
<p style="color:#666;">Hi {{.Username}}, you joined <b>{{.GroupName}}</b>.</p>
<p style="font-size:14px; color:#666;">You can now add expenses and track balances.</p>`)
