package evd

// Event is one trigger window from charge/events/data.
type Event struct {
	ID      int64
	TsStart int64
	TsEnd   int64
}

// Hit is one charge deposit from charge/hits/data. ID is the row index of
// the hit in the table, which is what the reference table points to.
type Hit struct {
	ID int
	Px float64
	Py float64
	Ts int64
	Q  float64
}

// HitRef links an event id to a hit row.
type HitRef struct {
	EventID int64
	HitID   int64
}

// Selection holds the hits chosen for one event in the columnar layout
// the renderer draws from. The slices are never nil.
type Selection struct {
	Event  Event
	HitIDs []int
	X      []float64
	Y      []float64
	Z      []float64
	Q      []float64
}

func (s Selection) Len() int {
	return len(s.HitIDs)
}

// newSelection fills the columns for the given hit rows, which must be in
// ascending order.
func newSelection(event Event, hits []Hit, rows []int, det Detector) Selection {
	sel := Selection{
		Event:  event,
		HitIDs: make([]int, len(rows)),
		X:      make([]float64, len(rows)),
		Y:      make([]float64, len(rows)),
		Z:      make([]float64, len(rows)),
		Q:      make([]float64, len(rows)),
	}
	for i, row := range rows {
		hit := hits[row]
		sel.HitIDs[i] = hit.ID
		sel.X[i] = hit.Px
		sel.Y[i] = hit.Py
		sel.Z[i] = det.DriftZ(float64(hit.Ts - event.TsStart))
		sel.Q[i] = hit.Q
	}
	return sel
}
