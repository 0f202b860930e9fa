package app

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/domain/plan"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	subjectApproved      = "Plan of Study Approved"
	subjectRejected      = "Plan of Study Rejected"
	subjectPendingReview = "Plan(s) of Study Awaiting Your Review"
)

// Renderer turns notification data into subject, plain-text and HTML bodies.
type Renderer struct {
	siteURL     string
	emailDomain string
	replyTo     string
	text        *texttemplate.Template
	html        *htmltemplate.Template
}

func NewRenderer(siteURL, emailDomain, replyTo string) (*Renderer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	return &Renderer{
		siteURL:     siteURL,
		emailDomain: emailDomain,
		replyTo:     replyTo,
		text:        text,
		html:        html,
	}, nil
}

// Address synthesizes the institutional address for a PID. Students are
// always mailed here; faculty only when no address is on file.
func (r *Renderer) Address(pid string) string {
	return pid + "@" + r.emailDomain
}

func (r *Renderer) Approved(pid string) (notification.Message, error) {
	return r.render(notification.KindApproved, r.Address(pid), subjectApproved, "approved", r.baseData())
}

func (r *Renderer) Rejected(pid string) (notification.Message, error) {
	return r.render(notification.KindRejected, r.Address(pid), subjectRejected, "rejected", r.baseData())
}

type digestRow struct {
	POSID      int64
	PID        string
	POSType    string
	Chair      string
	StatusName string
}

// PendingReview renders the reviewer digest listing every plan in plans.
func (r *Renderer) PendingReview(to string, status plan.Status, plans []*plan.Plan) (notification.Message, error) {
	rows := make([]digestRow, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, digestRow{
			POSID:      p.POSID,
			PID:        p.PID,
			POSType:    p.POSType,
			Chair:      p.CommitteeChair.String,
			StatusName: p.CurrentStatus.Name(),
		})
	}

	data := r.baseData()
	data["StatusName"] = status.Name()
	data["Count"] = len(plans)
	data["Rows"] = rows

	return r.render(notification.KindPendingReview, to, subjectPendingReview, "pending_review", data)
}

func (r *Renderer) baseData() map[string]interface{} {
	return map[string]interface{}{
		"SiteURL": r.siteURL,
		"ReplyTo": r.replyTo,
	}
}

func (r *Renderer) render(kind notification.Kind, to, subject, name string, data map[string]interface{}) (notification.Message, error) {
	var text, html bytes.Buffer
	if err := r.text.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return notification.Message{}, fmt.Errorf("failed to render %s text body: %w", name, err)
	}
	if err := r.html.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return notification.Message{}, fmt.Errorf("failed to render %s html body: %w", name, err)
	}
	return notification.Message{
		Kind:    kind,
		To:      to,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
