package domain

// EntryKind is the kind of an entry in a remote listing
type EntryKind int

const (
	KindBlob EntryKind = iota
	KindTree
)

func (k EntryKind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// FileDescriptor is one entry of a remote listing snapshot
type FileDescriptor struct {
	Path         string
	Kind         EntryKind
	VersionStamp string // blob stamp reported by the listing, empty for trees
}

// Blob is the content of a remote file together with its version stamp
type Blob struct {
	Content      []byte
	VersionStamp string
}

// Document is the backing file of a page
type Document struct {
	StoragePath  string // e.g., "guide/install/index.md"
	VersionStamp string
}

// OpenedDocument is a document read fresh from the remote store
type OpenedDocument struct {
	StoragePath  string
	Text         string
	VersionStamp string
}

// EditBuffer holds unsaved text for one page. It is owned by the caller;
// the engine only reads it when saving.
type EditBuffer struct {
	StoragePath      string
	Text             string
	BaseVersionStamp string
}

// NewEditBuffer starts an edit from an opened document
func NewEditBuffer(doc *OpenedDocument) *EditBuffer {
	return &EditBuffer{
		StoragePath:      doc.StoragePath,
		Text:             doc.Text,
		BaseVersionStamp: doc.VersionStamp,
	}
}
