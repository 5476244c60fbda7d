package models

import "time"

// The Form object.
type Form struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Questions   QuestionList `db:"questions" json:"questions"` // jsonb
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// ToModel satisfies store.DTO.
func (f Form) ToModel(id string) any {
	f.ID = id
	return f
}

// FormPatch carries the columns a form update is allowed to touch, so a patch
// never rewrites created_at or the id. Description is a pointer: updates are
// full replacements and clearing it to "" must survive the store's
// skip-empty-fields builder.
type FormPatch struct {
	Title       string       `db:"title"`
	Description *string      `db:"description"`
	Questions   QuestionList `db:"questions"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func (p FormPatch) ToModel(id string) any {
	return p
}
