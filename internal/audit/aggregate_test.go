package audit

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/inventoryaudit/internal/model"
)

func rec(agency, website, bureau, office string) model.PublicInventoryRecord {
	return model.PublicInventoryRecord{Agency: agency, Website: website, Bureau: bureau, Office: office}
}

func TestAggregatorAdd(t *testing.T) {
	t.Parallel()

	t.Run("duplicate website within agency", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "a.gov", "X", ""))
		agg.Add(rec("A", "a.gov", "", "Y"))

		s, ok := agg.Stats("A")
		if !ok {
			t.Fatal("expected stats for A")
		}
		want := model.InventoryStats{
			Agency:               "A",
			WebsiteCount:         2,
			BureauCount:          1,
			EntriesWithoutBureau: 1,
			OfficeCount:          1,
			EntriesWithoutOffice: 1,
			UniqueWebsites:       map[string]struct{}{"a.gov": {}},
		}
		if diff := cmp.Diff(want, s); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if agg.Occurrences("a.gov") != 2 {
			t.Errorf("expected global count 2, got %d", agg.Occurrences("a.gov"))
		}
		if agg.DuplicateCount(s) != 2 {
			t.Errorf("expected 2 duplicates, got %d", agg.DuplicateCount(s))
		}
	})

	t.Run("blank website is not counted", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "   ", "X", "Y"))
		agg.Add(rec("A", "", "", ""))

		s, _ := agg.Stats("A")
		if s.WebsiteCount != 0 || s.UniqueWebsiteCount() != 0 {
			t.Errorf("expected no websites, got count %d and %d unique", s.WebsiteCount, s.UniqueWebsiteCount())
		}
		if s.BureauCount != 1 || s.EntriesWithoutBureau != 1 {
			t.Errorf("expected bureau counters 1/1, got %d/%d", s.BureauCount, s.EntriesWithoutBureau)
		}
		if agg.Occurrences("   ") != 0 {
			t.Error("blank website should not be in the global map")
		}
	})

	t.Run("blank agency is its own key", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("", "x.gov", "", ""))
		agg.Add(rec("B", "b.gov", "", ""))

		if _, ok := agg.Stats(""); !ok {
			t.Error("expected stats for the empty agency")
		}
		if diff := cmp.Diff([]string{"", "B"}, agg.Agencies()); diff != "" {
			t.Errorf("agency order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unacceptable urls", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "www.a.gov", "", ""))
		agg.Add(rec("A", "a.gov?x=1", "", ""))
		agg.Add(rec("A", "https://a.gov", "", ""))

		s, _ := agg.Stats("A")
		if s.UnacceptableURLs != 2 {
			t.Errorf("expected 2 unacceptable URLs, got %d", s.UnacceptableURLs)
		}
	})
}

func TestAggregatorInvariants(t *testing.T) {
	t.Parallel()

	websites := []string{"a.gov", "b.gov", "c.gov", "d.gov", " ", ""}
	agencies := []string{"A", "B", "C"}
	rng := rand.New(rand.NewPCG(1, 2))

	agg := NewAggregator()
	for range 500 {
		agg.Add(rec(
			agencies[rng.IntN(len(agencies))],
			websites[rng.IntN(len(websites))],
			"", "",
		))
	}

	for _, name := range agg.Agencies() {
		s, _ := agg.Stats(name)
		if s.WebsiteCount < s.UniqueWebsiteCount() {
			t.Errorf("%s: website_count %d < unique %d", name, s.WebsiteCount, s.UniqueWebsiteCount())
		}

		want := 0
		for w := range s.UniqueWebsites {
			if n := agg.Occurrences(w); n > 1 {
				want += n
			}
		}
		if got := agg.DuplicateCount(s); got != want {
			t.Errorf("%s: duplicate count %d, expected %d", name, got, want)
		}
	}
}

func TestAggregatorUpsert(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	got := agg.Upsert("A", func(s model.InventoryStats) model.InventoryStats {
		s.WebsiteCount = 7
		return s
	})
	if got.WebsiteCount != 7 {
		t.Errorf("expected returned value to be updated, got %d", got.WebsiteCount)
	}
	stored, _ := agg.Stats("A")
	if stored.WebsiteCount != 7 {
		t.Errorf("expected stored value to be updated, got %d", stored.WebsiteCount)
	}
	if agg.Len() != 1 {
		t.Errorf("expected 1 agency, got %d", agg.Len())
	}
}

type fakeDates struct {
	dates map[string]time.Time
	paths []string
}

func (f *fakeDates) LastModified(_ context.Context, path string) (time.Time, error) {
	f.paths = append(f.paths, path)
	t, ok := f.dates[path]
	if !ok {
		return time.Time{}, errors.New("no commits")
	}
	return t, nil
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("inventory map order and exclusion", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "a.gov", "X", ""))
		agg.Add(rec("A", "a.gov", "", "Y"))
		agg.Add(rec("B", "shared.gov", "X", "Y"))
		agg.Add(rec("C", "shared.gov", "X", "Y"))
		agg.Add(rec("Unmapped", "u.gov", "", ""))

		inv := model.NewInventoryMap()
		inv.Set("C", "https://www.c-agency.gov/inventory.csv")
		inv.Set("Missing", "https://missing.gov/")
		inv.Set("A", "https://a.gov/")
		inv.Set("B", "https://b.gov/")

		dates := &fakeDates{dates: map[string]time.Time{
			"snap/a.csv":        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			"snap/c-agency.csv": time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
		}}
		r := NewResolver(dates, WithSnapshotDir("snap"), WithResolverLogger(slog.Default()))

		rows, err := r.Resolve(context.Background(), agg, inv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got [][]string
		for _, row := range rows {
			got = append(got, row.CSVRecord())
		}
		want := [][]string{
			{"C", "https://www.c-agency.gov/inventory.csv", "11-30-23", "1", "1", "1", "0", "0", "2"},
			{"A", "https://a.gov/", "03-05-24", "2", "1", "1", "1", "1", "2"},
			{"B", "https://b.gov/", "", "1", "1", "1", "0", "0", "2"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"snap/c-agency.csv", "snap/a.csv", "snap/b.csv"}, dates.paths); diff != "" {
			t.Errorf("looked up paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil date source", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "a.gov", "", ""))
		inv := model.NewInventoryMap()
		inv.Set("A", "not a url")

		rows, err := NewResolver(nil).Resolve(context.Background(), agg, inv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 || rows[0].LastUpdatedDate != "" || rows[0].DuplicateWebsites != 0 {
			t.Errorf("unexpected rows %+v", rows)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator()
		agg.Add(rec("A", "a.gov", "", ""))
		inv := model.NewInventoryMap()
		inv.Set("A", "https://a.gov")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewResolver(nil).Resolve(ctx, agg, inv); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("snapshot path uses the empty token", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(nil)
		if got := r.SnapshotPath("not a url"); got != "snapshots/empty.csv" {
			t.Errorf("expected snapshots/empty.csv, got %s", got)
		}
	})
}
