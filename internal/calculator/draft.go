package calculator

import "github.com/splitfair/splitfair/internal/models"

// Draft is the transient in-memory expense being composed. It is an
// immutable value: every user action is a transition method returning a
// new Draft, so the participant/payer invariants are restored at the
// transition and never depend on caller discipline.
//
// Amount and Shares hold the raw user-entered strings; they are parsed
// during validation and payload building, not at entry time.
type Draft struct {
	GroupID      string
	Title        string
	Amount       string
	PaidBy       string
	Participants []string
	SplitType    models.SplitType
	Shares       map[string]string
}

// NewDraft creates a draft for the given group with every member
// participating and an equal split, matching the form's initial state.
func NewDraft(groupID string, members []string) Draft {
	return Draft{
		GroupID:      groupID,
		Participants: append([]string(nil), members...),
		SplitType:    models.SplitEqual,
	}
}

// WithTitle returns the draft with the title replaced.
func (d Draft) WithTitle(title string) Draft {
	d.Title = title
	return d
}

// WithAmount returns the draft with the raw amount input replaced.
func (d Draft) WithAmount(amount string) Draft {
	d.Amount = amount
	return d
}

// WithSplitType returns the draft with the split type replaced.
func (d Draft) WithSplitType(t models.SplitType) Draft {
	d.SplitType = t
	return d
}

// WithPayer returns the draft with the payer replaced. If the new payer is
// not already a participant it is appended: the payer is always a member
// of the participant set.
func (d Draft) WithPayer(email string) Draft {
	d.PaidBy = email
	if email != "" && !d.IsParticipant(email) {
		d.Participants = append(append([]string(nil), d.Participants...), email)
	}
	return d
}

// ToggleParticipant returns the draft with the member added or removed
// from the participant set. Toggling the current payer is a no-op.
func (d Draft) ToggleParticipant(email string) Draft {
	if email == d.PaidBy {
		return d
	}
	updated := make([]string, 0, len(d.Participants)+1)
	removed := false
	for _, p := range d.Participants {
		if p == email {
			removed = true
			continue
		}
		updated = append(updated, p)
	}
	if !removed {
		updated = append(updated, email)
	}
	d.Participants = updated
	return d
}

// WithShare returns the draft with the member's raw share input replaced.
func (d Draft) WithShare(email, share string) Draft {
	shares := make(map[string]string, len(d.Shares)+1)
	for k, v := range d.Shares {
		shares[k] = v
	}
	shares[email] = share
	d.Shares = shares
	return d
}

// IsParticipant reports whether the member is in the participant set.
func (d Draft) IsParticipant(email string) bool {
	for _, p := range d.Participants {
		if p == email {
			return true
		}
	}
	return false
}
