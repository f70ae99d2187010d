package evd

import (
	"path/filepath"
	"testing"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Rows as written by the LArPix converter, with more columns than the
// display reads.
type eventRowHDF5 struct {
	id       int64
	nhit     int32
	q        float64
	ts_start int64
	ts_end   int64
}

type hitRowHDF5 struct {
	id      uint32
	px      float64
	py      float64
	ts      int64
	q       float64
	iogroup uint8
}

type fixture struct {
	events []eventRowHDF5
	hits   []hitRowHDF5
	// flattened (event id, hit id) pairs, nil to leave the table out
	refs []int64
}

type groupCreator interface {
	CreateGroup(name string) (*hdf5.Group, error)
}

func createGroup(t *testing.T, parent groupCreator, name string) *hdf5.Group {
	t.Helper()
	g, err := parent.CreateGroup(name)
	if err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
	return g
}

func createTable(t *testing.T, group *hdf5.Group, name string, datatype interface{}) *hdf5.Dataset {
	t.Helper()
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		t.Fatalf("create dataspace: %v", err)
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		t.Fatalf("create property list: %v", err)
	}
	defer plist.Close()
	plist.SetChunk([]uint{1024})
	plist.SetDeflate(4)

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		t.Fatalf("create datatype: %v", err)
	}
	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		t.Fatalf("create table %s: %v", name, err)
	}
	return dset
}

func writeArrayToTable[T any](t *testing.T, dataset *hdf5.Dataset, data *[]T) {
	t.Helper()
	length := uint(len(*data))
	if length == 0 {
		return
	}
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		t.Fatalf("create dataspace: %v", err)
	}
	defer dataspace.Close()

	if err := dataset.Resize([]uint{length}); err != nil {
		t.Fatalf("resize table: %v", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()
	if err := filespace.SelectHyperslab([]uint{0}, nil, []uint{length}, nil); err != nil {
		t.Fatalf("select hyperslab: %v", err)
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		t.Fatalf("write table: %v", err)
	}
}

func writeRefs(t *testing.T, group *hdf5.Group, refs []int64) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(refs) / 2), 2}, nil)
	if err != nil {
		t.Fatalf("create dataspace: %v", err)
	}
	defer space.Close()

	dset, err := group.CreateDataset("ref", hdf5.T_NATIVE_INT64, space)
	if err != nil {
		t.Fatalf("create ref dataset: %v", err)
	}
	defer dset.Close()
	if len(refs) > 0 {
		if err := dset.Write(&refs); err != nil {
			t.Fatalf("write refs: %v", err)
		}
	}
}

// writeFixture lays out the file the way the event display expects:
// charge/events/data, charge/hits/data and
// charge/events/ref/charge/hits/ref.
func writeFixture(t *testing.T, fx fixture) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "evd.h5")
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()

	charge := createGroup(t, f, "charge")
	defer charge.Close()
	eventsGroup := createGroup(t, charge, "events")
	defer eventsGroup.Close()
	hitsGroup := createGroup(t, charge, "hits")
	defer hitsGroup.Close()

	events := createTable(t, eventsGroup, "data", eventRowHDF5{})
	defer events.Close()
	writeArrayToTable(t, events, &fx.events)

	hits := createTable(t, hitsGroup, "data", hitRowHDF5{})
	defer hits.Close()
	writeArrayToTable(t, hits, &fx.hits)

	if fx.refs != nil {
		group := eventsGroup
		for _, name := range []string{"ref", "charge", "hits"} {
			group = createGroup(t, group, name)
			defer group.Close()
		}
		writeRefs(t, group, fx.refs)
	}
	return fname
}

func sampleFixture() fixture {
	return fixture{
		events: []eventRowHDF5{
			{id: 0, nhit: 3, q: 30, ts_start: 100, ts_end: 200},
			{id: 1, nhit: 1, q: 5, ts_start: 1000, ts_end: 1100},
			{id: 2, nhit: 0, q: 0, ts_start: 5000, ts_end: 5100},
		},
		hits: []hitRowHDF5{
			{id: 0, px: -10.5, py: 4.4, ts: 100, q: 12, iogroup: 1},
			{id: 1, px: 0, py: 0, ts: 150, q: 8, iogroup: 1},
			{id: 2, px: 22.1, py: -3.3, ts: 199, q: 10, iogroup: 2},
			{id: 3, px: 1, py: 1, ts: 200, q: 7, iogroup: 2},
			{id: 4, px: 5, py: 5, ts: 1050, q: 5, iogroup: 1},
		},
		// hit 3 sits on the closing edge of event 0 but is referenced by it
		refs: []int64{0, 0, 0, 1, 0, 2, 0, 3, 1, 4},
	}
}
