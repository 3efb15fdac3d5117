package facts

// Entity is a node extracted from conversation text, identified by the
// (name, label) pair.
type Entity struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Relationship is an edge between two entities, identified by the
// (source, target, type) triple.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// FactGraph is the structured output of fact extraction. Merging the same
// graph into the store twice is a no-op, so graphs can be re-emitted freely.
type FactGraph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

func (g FactGraph) IsEmpty() bool {
	return len(g.Entities) == 0 && len(g.Relationships) == 0
}

const (
	LabelUser   = "User"
	LabelPerson = "PERSON"

	RelationIsNamed = "IS_NAMED"
)
