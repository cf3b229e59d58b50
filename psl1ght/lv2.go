package psl1ght

type SemID uint32

type SemAttr struct {
	Protocol uint32
	PShared  uint32
	Key      uint64
	Flags    int32
	Name     [8]byte
}

const (
	SyncPriority = 2

	SyncProcessShared    = 0x0100
	SyncNotProcessShared = 0x0200
)

// NewSemAttr returns priority-ordered, process shared attributes.
func NewSemAttr(name string) SemAttr {
	attr := SemAttr{Protocol: SyncPriority, PShared: SyncProcessShared}
	copy(attr.Name[:], name)
	return attr
}

type ThreadID uint64

type ThreadFlags uint64

const ThreadJoinable ThreadFlags = 1
