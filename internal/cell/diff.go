package cell

// VecDiffKind enumerates the incremental operations a CellVec can
// broadcast, per spec.md §3's diff-propagating collection contract.
type VecDiffKind int

const (
	VecReplace VecDiffKind = iota
	VecInsertAt
	VecUpdateAt
	VecRemoveAt
	VecPush
	VecPop
	VecClear
	VecMove
)

func (k VecDiffKind) String() string {
	switch k {
	case VecReplace:
		return "Replace"
	case VecInsertAt:
		return "InsertAt"
	case VecUpdateAt:
		return "UpdateAt"
	case VecRemoveAt:
		return "RemoveAt"
	case VecPush:
		return "Push"
	case VecPop:
		return "Pop"
	case VecClear:
		return "Clear"
	case VecMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// VecDiff is one incremental change to a CellVec's backing slice. Only
// the fields relevant to Kind are populated; it is a tagged union
// expressed as a flat struct since Go has no sum types.
type VecDiff[T any] struct {
	Kind   VecDiffKind
	Index  int // InsertAt, UpdateAt, RemoveAt
	Value  T   // InsertAt, UpdateAt, Push
	Values []T // Replace: the full snapshot

	FromIndex int // Move
	ToIndex   int // Move
}

// ApplyVecDiff applies a single diff to a mirror slice and returns the
// resulting slice. It is the one place the "how does this diff change
// the collection" logic lives; CellVec's write handle and
// internal/signal/signalvec's ToSignal and SumSignal combinators (which
// keep their own local mirrors to collapse diffs) both build on it
// instead of re-deriving the same splicing logic. signalvec's Filter
// keeps its own mirror with its own splicing helpers.
func ApplyVecDiff[T any](values []T, d VecDiff[T]) []T {
	switch d.Kind {
	case VecReplace:
		return append([]T(nil), d.Values...)
	case VecInsertAt:
		out := make([]T, 0, len(values)+1)
		out = append(out, values[:d.Index]...)
		out = append(out, d.Value)
		out = append(out, values[d.Index:]...)
		return out
	case VecUpdateAt:
		out := append([]T(nil), values...)
		out[d.Index] = d.Value
		return out
	case VecRemoveAt:
		out := make([]T, 0, len(values)-1)
		out = append(out, values[:d.Index]...)
		out = append(out, values[d.Index+1:]...)
		return out
	case VecPush:
		return append(append([]T(nil), values...), d.Value)
	case VecPop:
		if len(values) == 0 {
			return values
		}
		return values[:len(values)-1]
	case VecClear:
		return nil
	case VecMove:
		out := append([]T(nil), values...)
		v := out[d.FromIndex]
		out = append(out[:d.FromIndex], out[d.FromIndex+1:]...)
		rest := make([]T, 0, len(out)+1)
		rest = append(rest, out[:d.ToIndex]...)
		rest = append(rest, v)
		rest = append(rest, out[d.ToIndex:]...)
		return rest
	default:
		return values
	}
}

func vecReplace[T any](values []T) VecDiff[T] {
	cp := make([]T, len(values))
	copy(cp, values)
	return VecDiff[T]{Kind: VecReplace, Values: cp}
}

func vecInsertAt[T any](i int, v T) VecDiff[T] { return VecDiff[T]{Kind: VecInsertAt, Index: i, Value: v} }
func vecUpdateAt[T any](i int, v T) VecDiff[T] { return VecDiff[T]{Kind: VecUpdateAt, Index: i, Value: v} }
func vecRemoveAt[T any](i int) VecDiff[T]      { return VecDiff[T]{Kind: VecRemoveAt, Index: i} }
func vecPush[T any](v T) VecDiff[T]            { return VecDiff[T]{Kind: VecPush, Value: v} }
func vecPop[T any]() VecDiff[T]                { return VecDiff[T]{Kind: VecPop} }
func vecClear[T any]() VecDiff[T]              { return VecDiff[T]{Kind: VecClear} }
func vecMove[T any](from, to int) VecDiff[T]   { return VecDiff[T]{Kind: VecMove, FromIndex: from, ToIndex: to} }

// MapDiffKind enumerates the incremental operations a CellMap can
// broadcast.
type MapDiffKind int

const (
	MapInsert MapDiffKind = iota
	MapUpdate
	MapRemove
	MapClear
	MapReplace
)

func (k MapDiffKind) String() string {
	switch k {
	case MapInsert:
		return "Insert"
	case MapUpdate:
		return "Update"
	case MapRemove:
		return "Remove"
	case MapClear:
		return "Clear"
	case MapReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// MapDiff is one incremental change to a CellMap.
type MapDiff[K comparable, V any] struct {
	Kind    MapDiffKind
	Key     K             // Insert, Update, Remove
	Value   V             // Insert, Update
	Entries map[K]V       // Replace: the full snapshot
}

func mapInsert[K comparable, V any](k K, v V) MapDiff[K, V] { return MapDiff[K, V]{Kind: MapInsert, Key: k, Value: v} }
func mapUpdate[K comparable, V any](k K, v V) MapDiff[K, V] { return MapDiff[K, V]{Kind: MapUpdate, Key: k, Value: v} }
func mapRemove[K comparable, V any](k K) MapDiff[K, V]      { return MapDiff[K, V]{Kind: MapRemove, Key: k} }
func mapClear[K comparable, V any]() MapDiff[K, V]          { return MapDiff[K, V]{Kind: MapClear} }
func mapReplace[K comparable, V any](entries map[K]V) MapDiff[K, V] {
	cp := make(map[K]V, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return MapDiff[K, V]{Kind: MapReplace, Entries: cp}
}
