// Package bench provides reproducible micro-benchmarks for the sparse and
// dense table engines. Run via: go test ./bench -bench=. -benchmem -cpu 1,4
//
// The benchmarks intentionally use a single key/value shape so results are
// comparable across engines:
//   - Key   - uint64 (cheap hashing, fits in a register)
//   - Value - 64-byte struct (large enough to matter, small enough for
//     cache lines)
//
// Unlike the teacher's cache benchmarks, there is no GetParallel here: the
// table engines carry no concurrency guarantees (§1's explicit Non-goal),
// so a benchmark sharing one instance across goroutines would be measuring
// undefined behavior, not a supported workload. cmd/tablebench covers
// aggregate concurrent throughput across independent instances instead.
package bench

import (
	"math/rand"
	"testing"

	"github.com/Voskan/arena-table/assoc"
	"github.com/Voskan/arena-table/dense"
	"github.com/Voskan/arena-table/sparse"
)

type value64 struct {
	_ [64]byte
}

type entry struct {
	K uint64
	V value64
}

const keys = 1 << 16

var ds = func() []uint64 {
	r := rand.New(rand.NewSource(42))
	arr := make([]uint64, keys)
	for i := range arr {
		arr[i] = r.Uint64()
	}
	return arr
}()

func BenchmarkSparseInsert(b *testing.B) {
	val := value64{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl := sparse.New(sparse.Config[uint64, entry]{KeyOf: func(e entry) uint64 { return e.K }})
		for _, k := range ds {
			tbl.Insert(entry{k, val})
		}
	}
}

func BenchmarkSparseFind(b *testing.B) {
	val := value64{}
	tbl := sparse.New(sparse.Config[uint64, entry]{KeyOf: func(e entry) uint64 { return e.K }})
	for _, k := range ds {
		tbl.Insert(entry{k, val})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Find(ds[i&(keys-1)])
	}
}

func BenchmarkDenseInsert(b *testing.B) {
	val := value64{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl := dense.New(dense.Config[uint64, entry]{KeyOf: func(e entry) uint64 { return e.K }})
		for _, k := range ds {
			tbl.Insert(entry{k, val})
		}
	}
}

func BenchmarkDenseFind(b *testing.B) {
	val := value64{}
	tbl := dense.New(dense.Config[uint64, entry]{KeyOf: func(e entry) uint64 { return e.K }})
	for _, k := range ds {
		tbl.Insert(entry{k, val})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tbl.Find(ds[i&(keys-1)])
	}
}

func BenchmarkAssocMapPut(b *testing.B) {
	val := value64{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := assoc.NewMap[uint64, value64]()
		for _, k := range ds {
			m.Put(k, val)
		}
	}
}

func BenchmarkAssocMapGet(b *testing.B) {
	val := value64{}
	m := assoc.NewMap[uint64, value64]()
	for _, k := range ds {
		m.Put(k, val)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(ds[i&(keys-1)])
	}
}

func BenchmarkSparseEraseThenReinsert(b *testing.B) {
	val := value64{}
	tbl := sparse.New(sparse.Config[uint64, entry]{KeyOf: func(e entry) uint64 { return e.K }})
	for _, k := range ds {
		tbl.Insert(entry{k, val})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		tbl.Erase(k)
		tbl.Insert(entry{k, val})
	}
}
