package evd

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const (
	EventsTable = "charge/events/data"
	HitsTable   = "charge/hits/data"
	RefsTable   = "charge/events/ref/charge/hits/ref"
)

// Only the columns listed here are read; HDF5 matches compound members by
// name and converts the numeric types. Field names are the column names.
type eventHDF5 struct {
	id       int64
	ts_start int64
	ts_end   int64
}

type hitHDF5 struct {
	px float64
	py float64
	ts int64
	q  float64
}

// Tables is the content of an event display file, loaded in memory.
type Tables struct {
	Events []Event
	Hits   []Hit
	Refs   []HitRef
}

type EventFile struct {
	Filename string
	file     *hdf5.File
}

func OpenEventFile(filename string) (*EventFile, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	return &EventFile{Filename: filename, file: f}, nil
}

func (f *EventFile) Close() error {
	return f.file.Close()
}

func (f *EventFile) ReadEvents() ([]Event, error) {
	rows, err := readTable[eventHDF5](f.file, EventsTable)
	if err != nil {
		return nil, err
	}
	events := make([]Event, len(rows))
	for i, row := range rows {
		events[i] = Event{ID: row.id, TsStart: row.ts_start, TsEnd: row.ts_end}
	}
	return events, nil
}

func (f *EventFile) ReadHits() ([]Hit, error) {
	rows, err := readTable[hitHDF5](f.file, HitsTable)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, len(rows))
	for i, row := range rows {
		hits[i] = Hit{ID: i, Px: row.px, Py: row.py, Ts: row.ts, Q: row.q}
	}
	return hits, nil
}

// ReadRefs reads the N x 2 (event id, hit id) reference array.
func (f *EventFile) ReadRefs() ([]HitRef, error) {
	dset, err := f.file.OpenDataset(RefsTable)
	if err != nil {
		return nil, &ErrReadTable{TableName: RefsTable, Err: err}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, &ErrReadTable{TableName: RefsTable, Err: err}
	}
	if len(dims) != 2 || dims[1] != 2 {
		return nil, &ErrReadTable{TableName: RefsTable, Err: fmt.Errorf("expected N x 2 array, got dims %v", dims)}
	}

	refs := make([]HitRef, dims[0])
	if dims[0] == 0 {
		return refs, nil
	}
	// The buffer MUST be allocated before reading, HDF5 writes in place
	flat := make([]int64, dims[0]*dims[1])
	if err := dset.Read(&flat); err != nil {
		return nil, &ErrReadTable{TableName: RefsTable, Err: err}
	}
	for i := range refs {
		refs[i] = HitRef{EventID: flat[2*i], HitID: flat[2*i+1]}
	}
	return refs, nil
}

// LoadTables reads the whole file and closes it. The reference table is only
// read when withRefs is set, files without it can still be displayed by
// timestamp.
func LoadTables(filename string, withRefs bool) (Tables, error) {
	var tables Tables
	f, err := OpenEventFile(filename)
	if err != nil {
		return tables, err
	}
	defer f.Close()

	tables.Events, err = f.ReadEvents()
	if err != nil {
		return tables, err
	}
	tables.Hits, err = f.ReadHits()
	if err != nil {
		return tables, err
	}
	if withRefs {
		tables.Refs, err = f.ReadRefs()
		if err != nil {
			return tables, err
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Read %d events, %d hits, %d references from %s",
			len(tables.Events), len(tables.Hits), len(tables.Refs), filename)
		logger.Info(message, "hdf5")
	}
	return tables, nil
}

func readTable[T any](file *hdf5.File, name string) ([]T, error) {
	dset, err := file.OpenDataset(name)
	if err != nil {
		return nil, &ErrReadTable{TableName: name, Err: err}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	n := space.SimpleExtentNPoints()

	rows := make([]T, n)
	if n == 0 {
		return rows, nil
	}
	if err := dset.Read(&rows); err != nil {
		return nil, &ErrReadTable{TableName: name, Err: err}
	}
	return rows, nil
}
