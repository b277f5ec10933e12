package archon

import (
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// ComponentID is the small integer a component type is assigned the
// first time it is seen by a World's registry. It is stable for the
// lifetime of that World and always lies in [0, Config.MaxComponents).
type ComponentID uint8

// copyFunc performs a write-barrier-safe value copy of one component
// slot into another. It is only present (non-nil) for component types
// whose layout carries a GC-traced reference; trivial, pointer-free
// types are copied with a raw byte copy instead (the all_trivial fast
// path described in the spec).
type copyFunc func(dst, src []byte)

// dropFunc clears a relinquished slot. It exists purely for Go's
// garbage collector: a component type containing a pointer/slice/map/
// string/interface left verbatim in a "now unused" byte range still
// roots whatever it refers to, which never happens in the spec's
// original bitwise-copy model because that model has no GC. dropFunc is
// the Go-specific extension of the spec's optional drop_thunk (see
// SPEC_FULL.md, "component destructors"). Pointer-free types get none.
type dropFunc func(slot []byte)

// componentMeta is everything the rest of the engine needs to know
// about one registered component type.
type componentMeta struct {
	id      ComponentID
	rtype   reflect.Type
	size    uintptr
	name    string
	trivial bool
	copyFn  copyFunc
	dropFn  dropFunc
}

// registry assigns stable small integer ids to component types for one
// World, idempotently, and records their per-type metadata. It is the
// "type registry" component of the spec.
type registry struct {
	byType []reflect.Type
	index  map[reflect.Type]ComponentID
	metas  []componentMeta
	names  *SimpleCache[ComponentID]
}

func newRegistry() *registry {
	return &registry{
		index: make(map[reflect.Type]ComponentID),
		names: NewSimpleCache[ComponentID](Config.MaxComponents),
	}
}

// idFor returns the stable id for rtype, registering it on first sight.
// Panics once more than Config.MaxComponents distinct types have been
// registered — a programmer error, per the spec's error-handling design.
func (r *registry) idFor(rtype reflect.Type) ComponentID {
	if id, ok := r.index[rtype]; ok {
		return id
	}
	if len(r.metas) >= Config.MaxComponents {
		panic(bark.AddTrace(TooManyComponentsError{Limit: Config.MaxComponents}))
	}
	id := ComponentID(len(r.metas))
	meta := componentMeta{
		id:    id,
		rtype: rtype,
		size:  rtype.Size(),
		name:  rtype.String(),
	}
	if containsGCReference(rtype) {
		meta.copyFn = reflectCopyFunc(rtype)
		meta.dropFn = reflectDropFunc(rtype)
	} else {
		meta.trivial = true
	}
	r.metas = append(r.metas, meta)
	r.byType = append(r.byType, rtype)
	r.index[rtype] = id
	r.names.Register(meta.name, id)
	return id
}

// lookupByName returns the id registered under a type's reflect.String()
// name, for debug/introspection callers that only have a name in hand.
func (r *registry) lookupByName(name string) (ComponentID, bool) {
	idx, ok := r.names.GetIndex(name)
	if !ok {
		return 0, false
	}
	return *r.names.GetItem(idx), true
}

// typeOf returns the reflect.Type registered under id.
func (r *registry) typeOf(id ComponentID) reflect.Type {
	return r.byType[id]
}

// meta returns the metadata for an already-registered id.
func (r *registry) meta(id ComponentID) *componentMeta {
	return &r.metas[id]
}

// lookup returns the id for rtype without registering it.
func (r *registry) lookup(rtype reflect.Type) (ComponentID, bool) {
	id, ok := r.index[rtype]
	return id, ok
}

// containsGCReference reports whether a value of type t could contain a
// pointer the garbage collector must trace: a pointer, slice, map,
// channel, func, interface, string, or unsafe.Pointer, recursively
// through struct fields and arrays. This is what the spec's "bitwise
// copyable" really means once translated into Go: if the GC never needs
// to see a write to this memory, a raw byte copy is exactly as correct
// as a typed one, and much cheaper.
func containsGCReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.String, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return containsGCReference(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsGCReference(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// reflectCopyFunc builds a copy_thunk for a non-trivial component type:
// reinterpret both slot byte ranges as *T and assign through reflect, so
// the runtime's write barrier sees every pointer write.
func reflectCopyFunc(t reflect.Type) copyFunc {
	return func(dst, src []byte) {
		dstVal := reflect.NewAt(t, unsafe.Pointer(&dst[0])).Elem()
		srcVal := reflect.NewAt(t, unsafe.Pointer(&src[0])).Elem()
		dstVal.Set(srcVal)
	}
}

// reflectDropFunc builds a drop_thunk that overwrites a relinquished
// slot with T's zero value, releasing any reference it held.
func reflectDropFunc(t reflect.Type) dropFunc {
	zero := reflect.Zero(t)
	return func(slot []byte) {
		reflect.NewAt(t, unsafe.Pointer(&slot[0])).Elem().Set(zero)
	}
}
