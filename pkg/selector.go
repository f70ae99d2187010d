package evd

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

// HitSelector picks the hits that belong to an event. Implementations never
// modify the tables they were built from, so repeated calls with the same
// event return the same selection.
type HitSelector interface {
	SelectHits(event Event) (Selection, error)
}

type SelectorMode string

const (
	SelectByTimestamp SelectorMode = "timestamp"
	SelectByReference SelectorMode = "reference"
)

// NewSelector builds the selector for the given mode. refs may be nil when
// the mode is timestamp.
func NewSelector(mode SelectorMode, hits []Hit, refs []HitRef, det Detector) (HitSelector, error) {
	switch mode {
	case SelectByTimestamp:
		return NewTimestampSelector(hits, det), nil
	case SelectByReference:
		return NewReferenceSelector(hits, refs, det), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, mode)
	}
}

// TimestampSelector takes every hit with ts_start <= ts < ts_end.
type TimestampSelector struct {
	hits     []Hit
	detector Detector
	// hit rows sorted by timestamp
	byTs []int
}

func NewTimestampSelector(hits []Hit, det Detector) *TimestampSelector {
	byTs := make([]int, len(hits))
	for i := range byTs {
		byTs[i] = i
	}
	slices.SortStableFunc(byTs, func(a, b int) int {
		return cmp.Compare(hits[a].Ts, hits[b].Ts)
	})
	return &TimestampSelector{
		hits:     hits,
		detector: det,
		byTs:     byTs,
	}
}

func (s *TimestampSelector) SelectHits(event Event) (Selection, error) {
	first := s.search(event.TsStart)
	last := s.search(event.TsEnd)
	if last < first {
		last = first
	}

	rows := make([]int, last-first)
	copy(rows, s.byTs[first:last])
	slices.Sort(rows)
	return newSelection(event, s.hits, rows, s.detector), nil
}

// search returns the position in byTs of the first hit with ts >= t.
func (s *TimestampSelector) search(t int64) int {
	pos, _ := slices.BinarySearchFunc(s.byTs, t, func(row int, t int64) int {
		return cmp.Compare(s.hits[row].Ts, t)
	})
	return pos
}

// ReferenceSelector takes the hits listed for the event in the reference
// table. It may disagree with TimestampSelector when the reference table
// and the event windows are not consistent with each other.
type ReferenceSelector struct {
	hits     []Hit
	detector Detector
	byEvent  map[int64][]int64
}

func NewReferenceSelector(hits []Hit, refs []HitRef, det Detector) *ReferenceSelector {
	byEvent := make(map[int64][]int64)
	for _, ref := range refs {
		byEvent[ref.EventID] = append(byEvent[ref.EventID], ref.HitID)
	}
	for id, hitIDs := range byEvent {
		slices.Sort(hitIDs)
		byEvent[id] = slices.Compact(hitIDs)
	}
	return &ReferenceSelector{
		hits:     hits,
		detector: det,
		byEvent:  byEvent,
	}
}

func (s *ReferenceSelector) SelectHits(event Event) (Selection, error) {
	hitIDs := s.byEvent[event.ID]
	rows := make([]int, len(hitIDs))
	for i, id := range hitIDs {
		if id < 0 || id >= int64(len(s.hits)) {
			return Selection{}, fmt.Errorf("%w: event %d references hit %d, table has %d hits",
				ErrDanglingReference, event.ID, id, len(s.hits))
		}
		rows[i] = int(id)
	}
	return newSelection(event, s.hits, rows, s.detector), nil
}
