package email

import (
	"errors"
	"fmt"

	"formbuilder-app/internal/domain/billing"

	"github.com/resend/resend-go/v2"
)

// Mailer sends transactional email through Resend. With no API key
// configured, sends fail with an error the callers log and move past.
type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	m := &Mailer{from: from}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

// SendInvoice delivers the payment invoice after a verified activation.
func (m *Mailer) SendInvoice(p *billing.Payment) error {
	if m.client == nil {
		return errors.New("email: RESEND_API_KEY not configured")
	}

	name := p.BuyerName
	if name == "" {
		name = "User"
	}

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{p.BuyerEmail},
		Subject: fmt.Sprintf("Payment Invoice — %s plan", p.PlanName),
		Html:    invoiceHTML(name, p),
	})
	return err
}

// SendPasswordReset mails the reset link. The link expires in 15 minutes.
func (m *Mailer) SendPasswordReset(to, link string) error {
	if m.client == nil {
		return errors.New("email: RESEND_API_KEY not configured")
	}

	html := fmt.Sprintf(`
      <h2>Password Reset</h2>
      <p>Click the link below to reset your password:</p>
      <a href="%[1]s">%[1]s</a>
      <p><b>Note:</b> Link expires in 15 minutes.</p>
    `, link)

	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Password Reset Request",
		Html:    html,
	})
	return err
}

func invoiceHTML(name string, p *billing.Payment) string {
	paymentID := ""
	if p.PaymentID != nil {
		paymentID = *p.PaymentID
	}
	validity := ""
	if p.PlanStartDate != nil && p.PlanEndDate != nil {
		validity = fmt.Sprintf(
			`<tr><td style="padding:10px; font-weight:bold;">Valid:</td><td style="padding:10px;">%s — %s</td></tr>`,
			p.PlanStartDate.Format("02 Jan 2006"), p.PlanEndDate.Format("02 Jan 2006"),
		)
	}

	return fmt.Sprintf(`
  <div style="font-family: 'Segoe UI', Arial, sans-serif; padding: 30px; color: #333;">
    <h2 style="color:#2b6cb0;">🧾 Payment Invoice</h2>
    <p>Hi <strong>%s</strong>,</p>
    <p>We’ve successfully received your payment. Here are your transaction details:</p>
    <table style="width:100%%; border-collapse: collapse; font-size:15px;">
      <tr style="background-color:#f3f4f6;"><td style="padding:10px; font-weight:bold;">Order ID:</td><td style="padding:10px;">%s</td></tr>
      <tr><td style="padding:10px; font-weight:bold;">Payment ID:</td><td style="padding:10px;">%s</td></tr>
      <tr style="background-color:#f3f4f6;"><td style="padding:10px; font-weight:bold;">Plan:</td><td style="padding:10px;">%s (%s)</td></tr>
      <tr><td style="padding:10px; font-weight:bold;">Amount:</td><td style="padding:10px;">₹%d (USD %.2f)</td></tr>
      %s
    </table>
  </div>`,
		name, p.OrderID, paymentID, p.PlanName, p.PlanType, p.AmountINR, p.AmountUSD, validity)
}
