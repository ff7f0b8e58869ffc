package benchmarks

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/randalmurphal/stopwatch/pkg/stopwatch"
	"github.com/randalmurphal/stopwatch/pkg/stopwatch/report"
)

// BenchmarkMemoryStore_Save measures in-memory report save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := report.NewMemoryStore()
	snaps := createSnapshots(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(report.New("bench", snaps))
	}
}

// BenchmarkMemoryStore_Load measures in-memory report load.
func BenchmarkMemoryStore_Load(b *testing.B) {
	store := report.NewMemoryStore()
	batch := report.New("bench", createSnapshots(100))
	_ = store.Save(batch)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(batch.ID)
	}
}

// BenchmarkSQLiteStore_Save measures SQLite report save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	snaps := createSnapshots(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(report.New("bench", snaps))
	}
}

// BenchmarkSQLiteStore_Load measures SQLite report load.
func BenchmarkSQLiteStore_Load(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	batch := report.New("bench", createSnapshots(100))
	_ = store.Save(batch)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(batch.ID)
	}
}

// BenchmarkSQLiteStore_List measures listing report metadata.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	snaps := createSnapshots(10)
	for i := 0; i < 100; i++ {
		_ = store.Save(report.New("bench-"+strconv.Itoa(i), snaps))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List()
	}
}

// BenchmarkBatchMarshal measures report serialization overhead.
func BenchmarkBatchMarshal(b *testing.B) {
	batch := report.New("bench", createSnapshots(100))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = batch.Marshal()
	}
}

// BenchmarkBatchUnmarshal measures report deserialization overhead.
func BenchmarkBatchUnmarshal(b *testing.B) {
	data, _ := report.New("bench", createSnapshots(100)).Marshal()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = report.Unmarshal(data)
	}
}

// Helper functions

func createSnapshots(n int) []stopwatch.Snapshot {
	snaps := make([]stopwatch.Snapshot, n)
	for i := range snaps {
		snaps[i] = stopwatch.Snapshot{
			ID:      watchID(i),
			Elapsed: 3 * time.Second,
			Laps:    []time.Duration{time.Second, time.Second, time.Second},
		}
	}
	return snaps
}

func createSQLiteStore(b *testing.B) (*report.SQLiteStore, func()) {
	b.Helper()
	tmpFile, err := os.CreateTemp("", "bench-*.db")
	if err != nil {
		b.Fatal(err)
	}
	tmpFile.Close()

	store, err := report.NewSQLiteStore(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		b.Fatal(err)
	}

	return store, func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
}
