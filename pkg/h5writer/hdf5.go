package h5writer

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type EventDataHDF5 struct {
	evt_number int32
	evt_id     [STRLEN]byte
}

type RunInfoHDF5 struct {
	run_number int32
}

type HeaderHDF5 struct {
	tag    [STRLEN]byte
	values [VALUELEN]byte
}

type ParticleHDF5 struct {
	evt_number int32
	index      int32
	parent     int32
	pdg        int32
	x          float64
	y          float64
	z          float64
	dx         float64
	dy         float64
	dz         float64
	energy     float64
	time       float64
}

type HitHDF5 struct {
	evt_number int32
	string_id  int32
	om_id      int32
	pmt_id     int32
	charge     float64
	time       float64
	width      float64
	origin     int32
}

type SummaryHDF5 struct {
	evt_number     int32
	hits           int32
	signal_hits    int32
	modules        int32
	signal_modules int32
	total_charge   float64
	signal_charge  float64
	mean_time      float64
	first_time     float64
	last_time      float64
}

const (
	STRLEN   = 20
	VALUELEN = 200
)

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func convertToHdf5Value(s string) [VALUELEN]byte {
	var byteArray [VALUELEN]byte
	copy(byteArray[:], s)
	return byteArray
}

// table is an extendable one dimensional dataset and the number of rows
// already written to it.
type table struct {
	name string
	dset *hdf5.Dataset
	rows int
}

func (t *table) Close() error {
	if t == nil || t.dset == nil {
		return nil
	}
	if err := t.dset.Close(); err != nil {
		return fmt.Errorf("error closing table %s: %w", t.name, err)
	}
	return nil
}

func openFile(fname string) *hdf5.File {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		panic(&ErrOpenFile{Filename: fname, Err: err})
	}
	return f
}

func createGroup(file *hdf5.File, groupName string) *hdf5.Group {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		panic(&ErrCreateGroup{GroupName: groupName, Err: err})
	}
	return g
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compressionLevel int) *table {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(&ErrCreateTable{TableName: name, Err: err})
	}

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(&ErrCreateTable{TableName: name, Err: err})
	}

	chunks := []uint{32768}
	plist.SetChunk(chunks)
	plist.SetDeflate(compressionLevel)

	// create the memory data type
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		panic(&ErrCreateTable{TableName: name, Err: err})
	}

	dset, err := group.CreateDatasetWith(name, dtype, file_space, plist)
	if err != nil {
		panic(&ErrCreateTable{TableName: name, Err: err})
	}
	return &table{name: name, dset: dset}
}

func writeEntryToTable[T any](t *table, data T) error {
	array := []T{data}
	return writeArrayToTable(t, &array)
}

// writeArrayToTable appends data at the end of t.
func writeArrayToTable[T any](t *table, data *[]T) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace for %s: %w", t.name, err)
	}
	defer dataspace.Close()

	// extend
	rowsInFile := uint(t.rows)
	newsize := []uint{rowsInFile + length}
	if err := t.dset.Resize(newsize); err != nil {
		return fmt.Errorf("error resizing %s: %w", t.name, err)
	}
	filespace := t.dset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("error selecting rows of %s: %w", t.name, err)
	}

	if err := t.dset.WriteSubset(data, dataspace, filespace); err != nil {
		return fmt.Errorf("error writing to %s: %w", t.name, err)
	}
	t.rows += int(length)
	return nil
}
