package core

import (
	"context"
	"strconv"
	"testing"
)

// ============================================================================
// Form Input Benchmarks
// ============================================================================

// BenchmarkParseSalary benchmarks salary parsing as typed into the form.
func BenchmarkParseSalary(b *testing.B) {
	testCases := []string{
		"85000",
		"85000.50",
		"$120,000",
		" €95 000 ",
		"1,234,567.89",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			_, _ = ParseSalary(tc)
		}
	}
}

// BenchmarkParseDate benchmarks date parsing for start and end dates.
func BenchmarkParseDate(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseDate("2026-11-01")
	}
}

// ============================================================================
// Validation Benchmarks
// ============================================================================

// BenchmarkValidate benchmarks a posting that passes every rule.
func BenchmarkValidate(b *testing.B) {
	v := NewValidator(DefaultCatalog())
	j := validJob("Software Engineer")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Validate(j)
	}
}

// BenchmarkValidate_AllErrors benchmarks an empty posting, which reports
// every required field.
func BenchmarkValidate_AllErrors(b *testing.B) {
	v := NewValidator(DefaultCatalog())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Validate(JobPosting{})
	}
}

// ============================================================================
// Mapping Benchmarks
// ============================================================================

// BenchmarkMapOutIn benchmarks the record round trip through storage form.
func BenchmarkMapOutIn(b *testing.B) {
	j := validJob("Software Engineer")
	j.EndDate = datePtr("2027-01-31")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MapIn(MapOut(j))
	}
}

// ============================================================================
// List Benchmarks
// ============================================================================

// BenchmarkJobList_Refresh benchmarks a full reload of a populated store.
func BenchmarkJobList_Refresh(b *testing.B) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	for i := 0; i < 500; i++ {
		if _, err := gw.Create(ctx, validJob("Job "+strconv.Itoa(i))); err != nil {
			b.Fatal(err)
		}
	}
	l := NewJobList(gw, NewValidator(nil), SyncReload)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := l.Refresh(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLists_MarkStaleExcept benchmarks fanning a change event out to
// many open sessions.
func BenchmarkLists_MarkStaleExcept(b *testing.B) {
	lists := NewLists(NewMemoryGateway(), NewValidator(nil), SyncReload)
	for i := 0; i < 1000; i++ {
		lists.For("session-" + strconv.Itoa(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lists.MarkStaleExcept("session-0")
	}
}
