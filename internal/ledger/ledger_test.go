package ledger

// note is the entity used throughout this package's tests. The Tags slice
// exists to prove that Clone produces a deep copy, not a shared reference.
type note struct {
	ID   int64    `json:"id"`
	Text string   `json:"text"`
	Tags []string `json:"tags,omitempty"`
}

type noteOp string

const (
	noteCreate  noteOp = "CREATE"
	noteUpdate  noteOp = "UPDATE"
	noteDelete  noteOp = "DELETE"
	noteRestore noteOp = "RESTORE"
)

func (n note) EntityID() int64 { return n.ID }

func (n note) WithID(id int64) note {
	n.ID = id
	return n
}

func (n note) Clone() note {
	if n.Tags != nil {
		tags := make([]string, len(n.Tags))
		copy(tags, n.Tags)
		n.Tags = tags
	}
	return n
}

func newNoteRepo() *AuditedRepository[note, noteOp] {
	return NewAuditedRepository[note, noteOp]("note", NewIdentityAllocator(), NewAuditTrail[note, noteOp]())
}
