package archon

import (
	"reflect"
	"testing"
	"unsafe"
)

// syntheticType returns a distinct struct type per i, for exercising
// the registry's id-assignment boundary without needing 65 hand-written
// component types.
func syntheticType(i int) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "Dummy", Type: reflect.ArrayOf(i+1, reflect.TypeOf(byte(0)))},
	})
}

func ptrOf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}

type regPosition struct{ X, Y float64 }
type regTag struct{}
type regWithSlice struct {
	Tags []string
}
type regWithString struct {
	Name string
}

func TestRegistryIdempotent(t *testing.T) {
	r := newRegistry()

	id1 := r.idFor(typeOf[regPosition]())
	id2 := r.idFor(typeOf[regPosition]())

	if id1 != id2 {
		t.Fatalf("idFor should be idempotent: got %d then %d", id1, id2)
	}
}

func TestRegistryDistinctTypesGetDistinctIDs(t *testing.T) {
	r := newRegistry()

	id1 := r.idFor(typeOf[regPosition]())
	id2 := r.idFor(typeOf[regTag]())

	if id1 == id2 {
		t.Fatalf("distinct types should get distinct ids, both got %d", id1)
	}
}

func TestRegistryMaxComponentsBoundary(t *testing.T) {
	r := newRegistry()

	defer func() {
		if recover() == nil {
			t.Fatalf("registering past Config.MaxComponents should panic")
		}
	}()

	for i := 0; i < Config.MaxComponents; i++ {
		r.idFor(syntheticType(i))
	}
	// the (MaxComponents+1)th distinct type must panic
	r.idFor(syntheticType(Config.MaxComponents))
}

func TestRegistryTrivialVsGCReference(t *testing.T) {
	r := newRegistry()

	posID := r.idFor(typeOf[regPosition]())
	sliceID := r.idFor(typeOf[regWithSlice]())
	stringID := r.idFor(typeOf[regWithString]())

	if !r.meta(posID).trivial {
		t.Fatalf("plain float struct should be trivial")
	}
	if r.meta(sliceID).trivial || r.meta(sliceID).copyFn == nil || r.meta(sliceID).dropFn == nil {
		t.Fatalf("struct containing a slice must be non-trivial with copy/drop thunks")
	}
	if r.meta(stringID).trivial || r.meta(stringID).copyFn == nil {
		t.Fatalf("struct containing a string must be non-trivial")
	}
}

func TestRegistryTypeOf(t *testing.T) {
	r := newRegistry()
	want := typeOf[regPosition]()
	id := r.idFor(want)

	if got := r.typeOf(id); got != want {
		t.Fatalf("typeOf(%d) = %v, want %v", id, got, want)
	}
}

func TestRegistryNameLookup(t *testing.T) {
	r := newRegistry()
	id := r.idFor(typeOf[regPosition]())

	got, ok := r.lookupByName(r.meta(id).name)
	if !ok || got != id {
		t.Fatalf("lookupByName(%q) = (%d, %v), want (%d, true)", r.meta(id).name, got, ok, id)
	}

	if _, ok := r.lookupByName("nonexistent"); ok {
		t.Fatalf("lookupByName should fail for an unregistered name")
	}
}

func TestCopyFuncPreservesSliceReference(t *testing.T) {
	r := newRegistry()
	id := r.idFor(typeOf[regWithSlice]())
	meta := r.meta(id)

	src := make([]byte, meta.size)
	dst := make([]byte, meta.size)

	val := regWithSlice{Tags: []string{"a", "b"}}
	*(*regWithSlice)(ptrOf(src)) = val

	meta.copyFn(dst, src)

	got := *(*regWithSlice)(ptrOf(dst))
	if len(got.Tags) != 2 || got.Tags[0] != "a" || got.Tags[1] != "b" {
		t.Fatalf("copied value = %+v, want %+v", got, val)
	}
}

func TestDropFuncZeroesReference(t *testing.T) {
	r := newRegistry()
	id := r.idFor(typeOf[regWithString]())
	meta := r.meta(id)

	buf := make([]byte, meta.size)
	*(*regWithString)(ptrOf(buf)) = regWithString{Name: "hello"}

	meta.dropFn(buf)

	got := *(*regWithString)(ptrOf(buf))
	if got.Name != "" {
		t.Fatalf("dropped slot = %+v, want zero value", got)
	}
}
