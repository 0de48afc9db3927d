package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"gorm.io/datatypes"
)

func withLetter(p model.Project, l model.RecommendationLetter) model.Project {
	p.RecommendationLetter = datatypes.NewJSONType(l)
	return p
}

func fixture() []model.Project {
	received := model.RecommendationLetter{
		Status:           model.LetterReceived,
		RequestDate:      "2026-02-01",
		ReceivedDocument: &model.ReceivedDocument{Name: "letter.pdf", UploadDate: time.Now()},
	}
	requested := model.RecommendationLetter{Status: model.LetterRequested, RequestDate: "2026-02-01"}

	return []model.Project{
		{ID: "c-none", Status: model.StatusCompleted},
		withLetter(model.Project{ID: "c-requested", Status: model.StatusCompleted}, requested),
		withLetter(model.Project{ID: "c-received", Status: model.StatusCompleted}, received),
		withLetter(model.Project{ID: "a-received", Status: model.StatusActive}, received),
		{ID: "a-plain", Status: model.StatusOnTrack},
	}
}

func ids(projects []model.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, Summary{CompletedCount: 3, LettersReceived: 1, LettersPending: 2}, s)
	assert.Equal(t, s.CompletedCount, s.LettersPending+s.LettersReceived)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestCertificates(t *testing.T) {
	tests := []struct {
		tab  CertificateTab
		want []string
	}{
		{CertificatesAll, []string{"c-none", "c-requested", "c-received"}},
		{CertificatesPending, []string{"c-none", "c-requested"}},
		{CertificatesReceived, []string{"c-received"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Certificates(fixture(), tt.tab)))
		})
	}
}

func TestSummaryInvariantAcrossMutations(t *testing.T) {
	projects := fixture()
	check := func() {
		s := Summarize(projects)
		assert.Equal(t, s.CompletedCount, s.LettersPending+s.LettersReceived)
		assert.Len(t, Certificates(projects, CertificatesPending), s.LettersPending)
		assert.Len(t, Certificates(projects, CertificatesReceived), s.LettersReceived)
	}

	check()
	projects[4].Status = model.StatusCompleted
	check()
	projects = projects[1:]
	check()
	projects[0] = withLetter(projects[0], model.RecommendationLetter{
		Status:           model.LetterReceived,
		ReceivedDocument: &model.ReceivedDocument{Name: "x.pdf"},
	})
	check()
}

func TestParseCertificateTab(t *testing.T) {
	tab, err := ParseCertificateTab("")
	require.NoError(t, err)
	assert.Equal(t, CertificatesAll, tab)

	_, err = ParseCertificateTab("overdue")
	assert.Error(t, err)
}
