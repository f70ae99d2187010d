package evd

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"golang.org/x/exp/slices"
)

// testHits are deliberately not sorted by timestamp.
func testHits() []Hit {
	ts := []int64{99, 100, 150, 199, 200, 120, 250}
	hits := make([]Hit, len(ts))
	for i, t := range ts {
		hits[i] = Hit{
			ID: i,
			Px: float64(10 * i),
			Py: float64(-10 * i),
			Ts: t,
			Q:  float64(i) + 0.5,
		}
	}
	return hits
}

func TestTimestampSelector(t *testing.T) {
	det := DefaultDetector()
	sel := NewTimestampSelector(testHits(), det)

	tests := []struct {
		name  string
		event Event
		want  []int
	}{
		{"window", Event{ID: 7, TsStart: 100, TsEnd: 200}, []int{1, 2, 3, 5}},
		{"low edge included", Event{ID: 1, TsStart: 99, TsEnd: 100}, []int{0}},
		{"high edge excluded", Event{ID: 2, TsStart: 150, TsEnd: 200}, []int{2, 3}},
		{"everything", Event{ID: 3, TsStart: 0, TsEnd: 1000}, []int{0, 1, 2, 3, 4, 5, 6}},
		{"no hits", Event{ID: 4, TsStart: 300, TsEnd: 400}, []int{}},
		{"empty window", Event{ID: 5, TsStart: 150, TsEnd: 150}, []int{}},
		{"inverted window", Event{ID: 6, TsStart: 200, TsEnd: 100}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sel.SelectHits(tt.event)
			if err != nil {
				t.Fatalf("SelectHits() error = %v", err)
			}
			if !reflect.DeepEqual(got.HitIDs, tt.want) {
				t.Errorf("HitIDs = %v, want %v", got.HitIDs, tt.want)
			}
			if got.Event != tt.event {
				t.Errorf("Event = %v, want %v", got.Event, tt.event)
			}
			for _, column := range [][]float64{got.X, got.Y, got.Z, got.Q} {
				if column == nil || len(column) != len(tt.want) {
					t.Errorf("column length %d, want %d", len(column), len(tt.want))
				}
			}
		})
	}
}

func TestSelectionColumns(t *testing.T) {
	det := DefaultDetector()
	hits := testHits()
	event := Event{ID: 7, TsStart: 100, TsEnd: 200}

	got, err := NewTimestampSelector(hits, det).SelectHits(event)
	if err != nil {
		t.Fatalf("SelectHits() error = %v", err)
	}
	for i, id := range got.HitIDs {
		h := hits[id]
		if got.X[i] != h.Px || got.Y[i] != h.Py || got.Q[i] != h.Q {
			t.Errorf("hit %d: got (%v, %v, q=%v), want (%v, %v, q=%v)", id, got.X[i], got.Y[i], got.Q[i], h.Px, h.Py, h.Q)
		}
		if want := det.DriftZ(float64(h.Ts - event.TsStart)); got.Z[i] != want {
			t.Errorf("hit %d: z = %v, want %v", id, got.Z[i], want)
		}
	}
}

func TestTimestampSelectorMatchesFilter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hits := make([]Hit, 2000)
	for i := range hits {
		hits[i] = Hit{ID: i, Ts: rng.Int63n(10000), Q: rng.Float64()}
	}
	sel := NewTimestampSelector(hits, DefaultDetector())

	for n := 0; n < 200; n++ {
		start := rng.Int63n(10000)
		event := Event{ID: int64(n), TsStart: start, TsEnd: start + rng.Int63n(500)}

		want := []int{}
		for _, h := range hits {
			if event.TsStart <= h.Ts && h.Ts < event.TsEnd {
				want = append(want, h.ID)
			}
		}
		got, err := sel.SelectHits(event)
		if err != nil {
			t.Fatalf("SelectHits() error = %v", err)
		}
		if !reflect.DeepEqual(got.HitIDs, want) {
			t.Fatalf("event %v: got %d hits, want %d", event, len(got.HitIDs), len(want))
		}
	}
}

func TestReferenceSelector(t *testing.T) {
	refs := []HitRef{
		{EventID: 7, HitID: 4},
		{EventID: 7, HitID: 2},
		{EventID: 7, HitID: 2},
		{EventID: 8, HitID: 0},
	}
	sel := NewReferenceSelector(testHits(), refs, DefaultDetector())

	tests := []struct {
		name  string
		event Event
		want  []int
	}{
		{"listed hits", Event{ID: 7, TsStart: 100, TsEnd: 200}, []int{2, 4}},
		{"single hit", Event{ID: 8, TsStart: 0, TsEnd: 10}, []int{0}},
		{"no references", Event{ID: 9, TsStart: 100, TsEnd: 200}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sel.SelectHits(tt.event)
			if err != nil {
				t.Fatalf("SelectHits() error = %v", err)
			}
			if !reflect.DeepEqual(got.HitIDs, tt.want) {
				t.Errorf("HitIDs = %v, want %v", got.HitIDs, tt.want)
			}
		})
	}
}

func TestReferenceSelectorDanglingReference(t *testing.T) {
	refs := []HitRef{{EventID: 7, HitID: 2}, {EventID: 7, HitID: 70}}
	sel := NewReferenceSelector(testHits(), refs, DefaultDetector())

	_, err := sel.SelectHits(Event{ID: 7})
	if !errors.Is(err, ErrDanglingReference) {
		t.Errorf("SelectHits() error = %v, want ErrDanglingReference", err)
	}
}

func TestSelectorsAreIdempotent(t *testing.T) {
	hits := testHits()
	original := slices.Clone(hits)
	refs := []HitRef{{EventID: 7, HitID: 5}, {EventID: 7, HitID: 1}}
	event := Event{ID: 7, TsStart: 100, TsEnd: 200}

	selectors := map[string]HitSelector{
		"timestamp": NewTimestampSelector(hits, DefaultDetector()),
		"reference": NewReferenceSelector(hits, refs, DefaultDetector()),
	}
	for name, sel := range selectors {
		t.Run(name, func(t *testing.T) {
			first, err := sel.SelectHits(event)
			if err != nil {
				t.Fatalf("SelectHits() error = %v", err)
			}
			second, err := sel.SelectHits(event)
			if err != nil {
				t.Fatalf("SelectHits() error = %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("second selection %v differs from first %v", second, first)
			}
			if !reflect.DeepEqual(hits, original) {
				t.Errorf("hits table was modified")
			}
		})
	}
}

func TestNewSelector(t *testing.T) {
	hits := testHits()
	det := DefaultDetector()

	s, err := NewSelector(SelectByTimestamp, hits, nil, det)
	if err != nil {
		t.Fatalf("NewSelector(timestamp) error = %v", err)
	}
	if _, ok := s.(*TimestampSelector); !ok {
		t.Errorf("NewSelector(timestamp) = %T", s)
	}

	s, err = NewSelector(SelectByReference, hits, nil, det)
	if err != nil {
		t.Fatalf("NewSelector(reference) error = %v", err)
	}
	if _, ok := s.(*ReferenceSelector); !ok {
		t.Errorf("NewSelector(reference) = %T", s)
	}

	if _, err := NewSelector("nearest", hits, nil, det); !errors.Is(err, ErrUnknownSelector) {
		t.Errorf("NewSelector(nearest) error = %v, want ErrUnknownSelector", err)
	}
}

func TestCompareSelections(t *testing.T) {
	hits := testHits()
	det := DefaultDetector()
	event := Event{ID: 7, TsStart: 100, TsEnd: 200}
	refs := []HitRef{{EventID: 7, HitID: 2}, {EventID: 7, HitID: 4}}

	a, _ := NewTimestampSelector(hits, det).SelectHits(event)
	b, _ := NewReferenceSelector(hits, refs, det).SelectHits(event)
	div := CompareSelections(a, b)

	if div.Empty() {
		t.Fatal("selections should diverge")
	}
	if div.Both != 1 {
		t.Errorf("Both = %d, want 1", div.Both)
	}
	if want := []int{1, 3, 5}; !reflect.DeepEqual(div.OnlyA, want) {
		t.Errorf("OnlyA = %v, want %v", div.OnlyA, want)
	}
	if want := []int{4}; !reflect.DeepEqual(div.OnlyB, want) {
		t.Errorf("OnlyB = %v, want %v", div.OnlyB, want)
	}

	same := CompareSelections(a, a)
	if !same.Empty() || same.Both != a.Len() {
		t.Errorf("comparing a selection with itself: %+v", same)
	}
}
