package types

// UpsertOutcome tells which branch a create-or-update by composite key took.
type UpsertOutcome string

const (
	UpsertInserted  UpsertOutcome = "inserted"
	UpsertUpdated   UpsertOutcome = "updated"
	UpsertUnchanged UpsertOutcome = "unchanged"
)

func (o UpsertOutcome) String() string {
	return string(o)
}

// Created reports whether a new row was written
func (o UpsertOutcome) Created() bool {
	return o == UpsertInserted
}
