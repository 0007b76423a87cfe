package model

import "time"

type Member struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Grade       int       `json:"grade"`
	Mobile      string    `json:"mobile"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Department  string    `json:"department"`
	Position    string    `json:"position"`
	Address     string    `json:"address"`
	PrevCompany string    `json:"prev_company"`
	Memo        string    `json:"memo"`
	Bio         string    `json:"bio"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberDraft carries the editable fields of a member. A zero ID means
// insert, a non-zero ID means update-by-id.
type MemberDraft struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Grade       int    `json:"grade"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Address     string `json:"address"`
	PrevCompany string `json:"prev_company"`
	Memo        string `json:"memo"`
	Bio         string `json:"bio"`
	PhotoURL    string `json:"photo_url"`
}
