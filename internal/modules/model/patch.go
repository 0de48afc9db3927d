package model

import (
	"fmt"

	"gorm.io/datatypes"
)

// ProjectPatch is a partial update of a project. Nil fields are left unchanged.
// The same patch is sent to the remote collaborator (Columns) and applied to the
// in-memory store (Apply).
type ProjectPatch struct {
	Name          *string        `json:"name,omitempty"`
	Client        *string        `json:"client,omitempty"`
	Location      *string        `json:"location,omitempty"`
	Manager       *string        `json:"manager,omitempty"`
	PONumber      *string        `json:"po_number,omitempty"`
	Deadline      *string        `json:"deadline,omitempty"`
	Status        *ProjectStatus `json:"status,omitempty"`
	Progress      *int           `json:"progress,omitempty"`
	CompletedDate *string        `json:"completed_date,omitempty"`
	ClientEmail   *string        `json:"client_email,omitempty"`
	ClientContact *string        `json:"client_contact,omitempty"`
	Documents     *Documents     `json:"documents,omitempty"`

	RecommendationLetter *RecommendationLetter `json:"recommendation_letter,omitempty"`
}

// LetterPatch is the patch written by every recommendation-letter transition.
func LetterPatch(l RecommendationLetter) ProjectPatch {
	return ProjectPatch{RecommendationLetter: &l}
}

func (p ProjectPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

func (p ProjectPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return fmt.Errorf("progress %d out of range 0-100", *p.Progress)
	}
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.RecommendationLetter != nil {
		if err := p.RecommendationLetter.Check(); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of pr with the patch applied.
func (p ProjectPatch) Apply(pr Project) Project {
	out := pr.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Client != nil {
		out.Client = *p.Client
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Manager != nil {
		out.Manager = *p.Manager
	}
	if p.PONumber != nil {
		out.PONumber = *p.PONumber
	}
	if p.Deadline != nil {
		out.Deadline = *p.Deadline
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Progress != nil {
		out.Progress = *p.Progress
	}
	if p.CompletedDate != nil {
		out.CompletedDate = *p.CompletedDate
	}
	if p.ClientEmail != nil {
		out.ClientEmail = *p.ClientEmail
	}
	if p.ClientContact != nil {
		out.ClientContact = *p.ClientContact
	}
	if p.Documents != nil {
		out.Documents = datatypes.NewJSONType(*p.Documents)
	}
	if p.RecommendationLetter != nil {
		out.RecommendationLetter = datatypes.NewJSONType(*p.RecommendationLetter)
	}
	return out
}

// Columns maps the patch to database column updates.
func (p ProjectPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Client != nil {
		cols["client"] = *p.Client
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Manager != nil {
		cols["manager"] = *p.Manager
	}
	if p.PONumber != nil {
		cols["po_number"] = *p.PONumber
	}
	if p.Deadline != nil {
		cols["deadline"] = *p.Deadline
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Progress != nil {
		cols["progress"] = *p.Progress
	}
	if p.CompletedDate != nil {
		cols["completed_date"] = *p.CompletedDate
	}
	if p.ClientEmail != nil {
		cols["client_email"] = *p.ClientEmail
	}
	if p.ClientContact != nil {
		cols["client_contact"] = *p.ClientContact
	}
	if p.Documents != nil {
		cols["documents"] = datatypes.NewJSONType(*p.Documents)
	}
	if p.RecommendationLetter != nil {
		cols["recommendation_letter"] = datatypes.NewJSONType(*p.RecommendationLetter)
	}
	return cols
}
