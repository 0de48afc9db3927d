package report

import (
	"fmt"

	"github.com/vesselworks/dashboard/internal/modules/model"
)

// Summary holds the recommendation-letter statistics over completed projects.
// LettersPending + LettersReceived always equals CompletedCount.
type Summary struct {
	CompletedCount  int `json:"completed_count"`
	LettersReceived int `json:"letters_received"`
	LettersPending  int `json:"letters_pending"`
}

func Summarize(projects []model.Project) Summary {
	var s Summary
	for _, p := range projects {
		if !p.IsCompleted() {
			continue
		}
		s.CompletedCount++
		if p.Letter().Status == model.LetterReceived {
			s.LettersReceived++
		}
	}
	s.LettersPending = s.CompletedCount - s.LettersReceived
	return s
}

type CertificateTab string

const (
	CertificatesAll      CertificateTab = "all"
	CertificatesPending  CertificateTab = "pending"
	CertificatesReceived CertificateTab = "received"
)

func ParseCertificateTab(s string) (CertificateTab, error) {
	switch CertificateTab(s) {
	case "":
		return CertificatesAll, nil
	case CertificatesAll, CertificatesPending, CertificatesReceived:
		return CertificateTab(s), nil
	}
	return "", fmt.Errorf("unknown certificate tab %q", s)
}

// Certificates lists completed projects for the given tab in input order.
func Certificates(projects []model.Project, tab CertificateTab) []model.Project {
	out := make([]model.Project, 0)
	for _, p := range projects {
		if !p.IsCompleted() {
			continue
		}
		received := p.Letter().Status == model.LetterReceived
		switch tab {
		case CertificatesPending:
			if received {
				continue
			}
		case CertificatesReceived:
			if !received {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
