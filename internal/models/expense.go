package models

import (
	"encoding/json"
	"fmt"
)

// SplitType selects how an expense is divided among its participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly; the store computes the shares.
	SplitEqual SplitType = "equal"

	// SplitUnequal carries one explicit share per participant.
	SplitUnequal SplitType = "unequal"
)

// MemberRef identifies a member in expense payloads. The store returns it
// either as a populated object ({"email": ..., "name": ...}) or, for older
// records, as a bare email string; UnmarshalJSON accepts both.
type MemberRef struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UnmarshalJSON decodes either an object or a plain string reference.
func (r *MemberRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Email)
	}
	type ref MemberRef
	var v ref
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid member reference: %w", err)
	}
	*r = MemberRef(v)
	return nil
}

// DisplayName returns the member's name, falling back to the email
// identifier when no name is set. Never returns an empty string for a
// populated reference.
func (r MemberRef) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}

// ExpenseParticipant is one participant row on a stored expense. Share is
// only meaningful for unequal splits; the store omits or zeroes it for
// equal splits.
type ExpenseParticipant struct {
	UserID MemberRef `json:"userId"`
	Share  float64   `json:"share"`
}

// Expense represents a recorded expense as returned by the store.
type Expense struct {
	ID           string               `json:"_id"`
	Title        string               `json:"title"`
	Amount       float64              `json:"amount"`
	PaidBy       MemberRef            `json:"paidBy"`
	Participants []ExpenseParticipant `json:"participants"`
	SplitType    SplitType            `json:"splitType"`
}

// ExpenseRequest is the creation payload sent to POST /expense.
//
// Participants carries one of two shapes, selected by SplitType:
// a flat list of email strings for equal splits, or a list of ShareInput
// for unequal splits. Field names and both shapes are a byte-level
// compatibility contract with the store.
type ExpenseRequest struct {
	GroupID      string    `json:"groupId"`
	Title        string    `json:"title"`
	Amount       float64   `json:"amount"`
	PaidBy       string    `json:"paidBy"`
	Participants any       `json:"participants"`
	SplitType    SplitType `json:"splitType"`
}

// ShareInput is one explicit participant share in an unequal-split request.
type ShareInput struct {
	UserID string  `json:"userId"`
	Share  float64 `json:"share"`
}
