package services

import (
	"strings"

	"github.com/tbourn/flexai-site/internal/domain"
)

// ConsultationTitlePrefix opens every consultation title.
const ConsultationTitlePrefix = "[상담 문의]"

// Consultation is the structured consultation form. Interests and
// Difficulties are the selected tag labels, in form order.
type Consultation struct {
	Name         string
	Email        string
	Phone        string
	JobTitle     string
	Interests    []string
	Difficulties []string
	Message      string
}

// ComposeConsultation flattens c into inquiry fields. The title lists the
// selected interests after ConsultationTitlePrefix; the message joins job
// title, difficulties and free text with blank lines, skipping empty parts.
func ComposeConsultation(c Consultation) domain.InquiryFields {
	interests := nonEmpty(c.Interests)
	difficulties := nonEmpty(c.Difficulties)

	title := ConsultationTitlePrefix
	if len(interests) > 0 {
		title += " " + strings.Join(interests, ", ")
	}

	var parts []string
	if v := strings.TrimSpace(c.JobTitle); v != "" {
		parts = append(parts, "직함: "+v)
	}
	if len(difficulties) > 0 {
		parts = append(parts, "어려운 부분: "+strings.Join(difficulties, ", "))
	}
	if v := strings.TrimSpace(c.Message); v != "" {
		parts = append(parts, "문의사항:\n"+v)
	}

	return domain.InquiryFields{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Title:   title,
		Message: strings.Join(parts, "\n\n"),
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
