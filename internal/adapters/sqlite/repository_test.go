package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/csg33k/vessel-reports/internal/adapters/sqlite"
	"github.com/csg33k/vessel-reports/internal/domain"
)

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo
}

func sampleTrip(id string) *domain.Trip {
	t := &domain.Trip{
		ID:         id,
		StartDate:  time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, time.August, 18, 0, 0, 0, 0, time.UTC),
		Purpose:    "Inspeksi kapal",
		VesselCode: "NZH",
		Costs:      domain.DefaultExpenseAmounts(),
	}
	t.Costs.Hotel = "1.500.000"
	t.Costs.Taxi = "lihat nota"
	return t
}

// ---------------------------------------------------------------------------
// Save / Get
// ---------------------------------------------------------------------------

func TestSaveAndGetTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	in := sampleTrip("FAJAR-SAMARINDA-2024-08-15")
	if err := repo.SaveTrip(ctx, in); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if in.CreatedAt.IsZero() || in.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := repo.GetTrip(ctx, in.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if diff := cmp.Diff(in.Costs, got.Costs); diff != "" {
		t.Errorf("costs mismatch (-want +got):\n%s", diff)
	}
	if !got.StartDate.Equal(in.StartDate) || !got.EndDate.Equal(in.EndDate) {
		t.Errorf("dates = %v..%v", got.StartDate, got.EndDate)
	}
	if got.Purpose != in.Purpose || got.VesselCode != in.VesselCode {
		t.Errorf("got %+v", got)
	}
}

func TestSaveTrip_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	first := sampleTrip("T1")
	if err := repo.SaveTrip(ctx, first); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	created := first.CreatedAt

	second := sampleTrip("T1")
	second.Purpose = "Survey ulang"
	second.Costs.Hotel = "2000000"
	if err := repo.SaveTrip(ctx, second); err != nil {
		t.Fatalf("SaveTrip again: %v", err)
	}
	if !second.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v -> %v", created, second.CreatedAt)
	}

	list, err := repo.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("trips = %d, want 1", len(list))
	}
	if list[0].Purpose != "Survey ulang" || list[0].Costs.Hotel != "2000000" {
		t.Errorf("stored trip not replaced: %+v", list[0])
	}
}

func TestSaveTrip_RequiresID(t *testing.T) {
	repo := newRepo(t)
	err := repo.SaveTrip(context.Background(), sampleTrip("   "))
	if !errors.Is(err, domain.ErrTripIDRequired) {
		t.Errorf("err = %v, want ErrTripIDRequired", err)
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetTrip(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTripNotFound) {
		t.Errorf("err = %v, want ErrTripNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// List / Delete
// ---------------------------------------------------------------------------

func TestListTrips_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for _, id := range []string{"A", "B", "C"} {
		if err := repo.SaveTrip(ctx, sampleTrip(id)); err != nil {
			t.Fatalf("SaveTrip %s: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	// Touching A makes it the most recent.
	if err := repo.SaveTrip(ctx, sampleTrip("A")); err != nil {
		t.Fatalf("SaveTrip A: %v", err)
	}

	list, err := repo.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	var ids []string
	for _, tr := range list {
		ids = append(ids, tr.ID)
	}
	if diff := cmp.Diff([]string{"A", "C", "B"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	if err := repo.SaveTrip(ctx, sampleTrip("T1")); err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if err := repo.DeleteTrip(ctx, "T1"); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if _, err := repo.GetTrip(ctx, "T1"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Errorf("after delete err = %v", err)
	}
	if err := repo.DeleteTrip(ctx, "T1"); !errors.Is(err, domain.ErrTripNotFound) {
		t.Errorf("second delete err = %v, want ErrTripNotFound", err)
	}
}
