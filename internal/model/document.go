package model

// DocumentRef identifies one document of the collection.
type DocumentRef struct {
	ID string `json:"id"`
}

type Document struct {
	Ref   DocumentRef
	Lines []string
}

type ChangeKind int

const (
	DocumentCreated ChangeKind = iota
	DocumentModified
	DocumentDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case DocumentCreated:
		return "created"
	case DocumentModified:
		return "modified"
	case DocumentDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

type ChangeEvent struct {
	Kind ChangeKind
	Ref  DocumentRef
}
