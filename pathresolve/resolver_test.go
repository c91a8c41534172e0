package pathresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSimpleChain(t *testing.T) {
	source := MapSource{
		5:  {Name: "", Active: true},
		10: {Name: "Windows", ParentRecordNum: 5, Active: true},
		20: {Name: "System32", ParentRecordNum: 10, Active: true},
		30: {Name: "notepad.exe", ParentRecordNum: 20, Active: true},
	}
	r := New(source)

	assert.Equal(t, `\Windows\System32\notepad.exe`, r.Resolve(30))
	assert.Equal(t, `\Windows`, r.Resolve(10))
}

func TestResolveUnknownParent(t *testing.T) {
	source := MapSource{
		10: {Name: "orphan.txt", ParentRecordNum: 999, Active: true},
	}
	r := New(source)

	assert.Equal(t, `<orphan>\orphan.txt`, r.Resolve(10))
}

func TestResolveSelfReference(t *testing.T) {
	source := MapSource{
		10: {Name: "weird.txt", ParentRecordNum: 10, Active: true},
	}
	r := New(source)

	assert.Equal(t, "<orphan>", r.Resolve(10))
}

func TestResolveSequenceMismatchTreatedAsOrphan(t *testing.T) {
	source := MapSource{
		5: {Name: "", Active: true},
		// record 10's slot was recycled: its live sequence is 2, but
		// record 20's FILE_NAME still expects parent sequence 1, the
		// value it was written against before the reuse.
		10: {Name: "Windows", ParentRecordNum: 5, ParentSequence: 1, SequenceNumber: 2, Active: true},
		20: {Name: "stale.txt", ParentRecordNum: 10, ParentSequence: 1, Active: true},
	}
	r := New(source)

	assert.Equal(t, `<orphan>\stale.txt`, r.Resolve(20))
}

func TestNoteForPath(t *testing.T) {
	note, ok := NoteForPath(`<cycle>\a\b`)
	assert.True(t, ok)
	assert.Equal(t, "CycleInPath", note)

	note, ok = NoteForPath(`<orphan>\a`)
	assert.True(t, ok)
	assert.Equal(t, "OrphanRecord", note)

	_, ok = NoteForPath(`\Windows\System32`)
	assert.False(t, ok)
}

func TestResolveCycleDetection(t *testing.T) {
	source := MapSource{
		10: {Name: "a", ParentRecordNum: 20, Active: true},
		20: {Name: "b", ParentRecordNum: 10, Active: true},
	}
	r := New(source)

	assert.Contains(t, r.Resolve(10), "<cycle>")
}

func TestResolveDeepPathLimit(t *testing.T) {
	source := MapSource{}
	var prev uint64 = RootRecordNumber
	for i := uint64(100); i < 500; i++ {
		source[i] = Entry{Name: "d", ParentRecordNum: prev, Active: true}
		prev = i
	}
	r := NewWithMaxDepth(source, 10)

	assert.Contains(t, r.Resolve(499), "DeepPath")
}

func TestResolveOrphanPrefixForInactiveParent(t *testing.T) {
	source := MapSource{
		5:  {Name: "", Active: true},
		10: {Name: "deleted_dir", ParentRecordNum: 5, Active: false},
		20: {Name: "child.txt", ParentRecordNum: 10, Active: true},
	}
	r := New(source)

	assert.Equal(t, `<orphan>\deleted_dir\child.txt`, r.Resolve(20))
}

func TestResolveMemoizes(t *testing.T) {
	source := MapSource{
		5:  {Name: "", Active: true},
		10: {Name: "a", ParentRecordNum: 5, Active: true},
	}
	r := New(source)

	first := r.Resolve(10)
	second := r.Resolve(10)
	assert.Equal(t, first, second)
}
