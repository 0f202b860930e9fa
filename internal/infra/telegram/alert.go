package telegram

import (
	"context"
	"fmt"
	"strings"

	"pos_emailer/internal/app"
	domainTelegram "pos_emailer/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// Alerter posts a run summary to an operator chat when a run had failures.
type Alerter struct {
	client domainTelegram.Client
	chatID int64
}

func NewAlerter(client domainTelegram.Client, chatID int64) *Alerter {
	return &Alerter{client: client, chatID: chatID}
}

func (a *Alerter) ObserveReport(ctx context.Context, report *app.Report) error {
	if !report.HasFailures() {
		return nil
	}
	if err := a.client.SendMessage(a.chatID, FormatReport(report), &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("failed to send telegram alert to chat %d: %w", a.chatID, err)
	}
	return nil
}

// FormatReport renders a plain-text run summary for operators.
func FormatReport(report *app.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("POS emailer run %s (job: %s) finished with failures\n", report.RunID, report.Job))
	for _, s := range report.Summaries {
		b.WriteString(fmt.Sprintf("\n%s: sent %d, skipped %d, failed %d",
			s.Procedure, s.Count(app.OutcomeSent), s.Count(app.OutcomeSkipped), s.Count(app.OutcomeFailed)))
		if s.Err != nil {
			b.WriteString(fmt.Sprintf("\n  aborted: %v", s.Err))
		}
		for _, o := range s.Outcomes {
			if o.Kind != app.OutcomeFailed {
				continue
			}
			b.WriteString(fmt.Sprintf("\n  - %s %v: %s", o.Status.Name(), o.POSIDs, o.Reason))
			if o.Reviewer != "" {
				b.WriteString(fmt.Sprintf(" (reviewer %s)", o.Reviewer))
			}
		}
	}
	return b.String()
}
