package ledger

// Entity is the capability every stored record must provide: a stable unique
// id, a way to stamp a freshly allocated id, and a deep copy. The type
// parameter is the implementing type itself so WithID and Clone stay fully
// typed without casts.
type Entity[E any] interface {
	EntityID() int64
	WithID(id int64) E
	Clone() E
}
