package h5writer

import (
	"errors"
	"fmt"
	"strings"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	evt "github.com/km3net/evt_reader_go/pkg"
	"golang.org/x/exp/slices"
)

// Hit table names, one per HitCollections series.
const (
	RawHitSeries     = "RawHitSeries"
	PhysicsHitSeries = "PhysicsHitSeries"
	SimpleHitSeries  = "SimpleHitSeries"
)

type Options struct {
	CompressionLevel int
	Verbosity        int
	Logger           evt.Logger
}

// Writer stores converted events in an HDF5 file.
type Writer struct {
	options       Options
	File          *hdf5.File
	Filename      string
	RunGroup      *hdf5.Group
	MCGroup       *hdf5.Group
	HitsGroup     *hdf5.Group
	EventTable    *table
	RunInfoTable  *table
	HeaderTable   *table
	SummaryTable  *table
	ParticleTable *table
	RawHits       *table
	PhysicsHits   *table
	SimpleHits    *table
	EvtCounter    int
}

func NewWriter(filename string, options Options) (writer *Writer, err error) {
	defer func() {
		if r := recover(); r != nil {
			if recovered, ok := r.(error); ok {
				err = fmt.Errorf("hdf5writer: %w", recovered)
			} else {
				err = fmt.Errorf("hdf5writer: %v", r)
			}
			if writer != nil {
				if closeErr := writer.closeAll(); closeErr != nil {
					err = errors.Join(err, closeErr)
				}
			}
			writer = nil
		}
	}()

	if options.Logger == nil {
		options.Logger = nopLogger{}
	}
	if options.Verbosity > 0 {
		options.Logger.Info(fmt.Sprintf("Creating file: %s", filename), "hdf5writer")
	}
	compressionLevel := options.CompressionLevel
	writer = &Writer{options: options}
	writer.File = openFile(filename)
	writer.Filename = filename
	writer.RunGroup = createGroup(writer.File, "Run")
	writer.MCGroup = createGroup(writer.File, "MC")
	writer.HitsGroup = createGroup(writer.File, "Hits")
	writer.EventTable = createTable(writer.RunGroup, "events", EventDataHDF5{}, compressionLevel)
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, compressionLevel)
	writer.HeaderTable = createTable(writer.RunGroup, "header", HeaderHDF5{}, compressionLevel)
	writer.SummaryTable = createTable(writer.RunGroup, "summary", SummaryHDF5{}, compressionLevel)
	writer.ParticleTable = createTable(writer.MCGroup, "particles", ParticleHDF5{}, compressionLevel)
	writer.RawHits = createTable(writer.HitsGroup, RawHitSeries, HitHDF5{}, compressionLevel)
	writer.PhysicsHits = createTable(writer.HitsGroup, PhysicsHitSeries, HitHDF5{}, compressionLevel)
	writer.SimpleHits = createTable(writer.HitsGroup, SimpleHitSeries, HitHDF5{}, compressionLevel)
	writer.EvtCounter = 0
	return writer, nil
}

// WriteHeader stores the run number and every header tag, sorted by tag.
func (w *Writer) WriteHeader(header evt.Header, runNumber int) error {
	if err := writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)}); err != nil {
		return err
	}
	entries := headerEntries(header)
	return writeArrayToTable(w.HeaderTable, &entries)
}

func headerEntries(header evt.Header) []HeaderHDF5 {
	tags := make([]string, 0, len(header))
	for tag := range header {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	// The array MUST be allocated at creation, if not, HDF5 will panic
	entries := make([]HeaderHDF5, len(tags))
	for i, tag := range tags {
		entries[i] = HeaderHDF5{
			tag:    convertToHdf5String(tag),
			values: convertToHdf5Value(strings.Join(header[tag], " ")),
		}
	}
	return entries
}

func (w *Writer) WriteEvent(event *evt.Event) error {
	evtNumber := int32(w.EvtCounter)
	var errs []error

	if err := writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: evtNumber,
		evt_id:     convertToHdf5String(event.ID),
	}); err != nil {
		errs = append(errs, err)
	}

	particles := particleRows(evtNumber, event.Tree)
	if err := writeArrayToTable(w.ParticleTable, &particles); err != nil {
		errs = append(errs, err)
	}

	series := []struct {
		table *table
		hits  evt.HitSeriesMap
	}{
		{w.RawHits, event.Hits.All},
		{w.PhysicsHits, event.Hits.Signal},
		{w.SimpleHits, event.Hits.MergedModule},
	}
	for _, s := range series {
		rows := hitRows(evtNumber, s.hits)
		if err := writeArrayToTable(s.table, &rows); err != nil {
			errs = append(errs, err)
		}
	}

	if err := writeEntryToTable(w.SummaryTable, summaryRow(evtNumber, event.Summary)); err != nil {
		errs = append(errs, err)
	}

	w.EvtCounter++
	if len(errs) > 0 {
		return fmt.Errorf("error writing event %s: %w", event.ID, errors.Join(errs...))
	}
	return nil
}

// particleRows flattens the tree: the primary is row 0 with parent -1, the
// secondaries follow with parent 0.
func particleRows(evtNumber int32, tree evt.ParticleTree) []ParticleHDF5 {
	rows := make([]ParticleHDF5, 0, len(tree.Secondaries)+1)
	rows = append(rows, particleRow(evtNumber, 0, -1, tree.Primary))
	for i, secondary := range tree.Secondaries {
		rows = append(rows, particleRow(evtNumber, int32(i+1), 0, secondary))
	}
	return rows
}

func particleRow(evtNumber int32, index int32, parent int32, p evt.Particle) ParticleHDF5 {
	return ParticleHDF5{
		evt_number: evtNumber,
		index:      index,
		parent:     parent,
		pdg:        int32(p.PDG),
		x:          p.Pos.X,
		y:          p.Pos.Y,
		z:          p.Pos.Z,
		dx:         p.Dir.X,
		dy:         p.Dir.Y,
		dz:         p.Dir.Z,
		energy:     p.Energy,
		time:       p.Time,
	}
}

// hitRows lists the hits ordered by key, keeping row order inside a key.
func hitRows(evtNumber int32, hits evt.HitSeriesMap) []HitHDF5 {
	rows := make([]HitHDF5, 0, hits.Len())
	for _, key := range hits.Keys() {
		for _, hit := range hits[key] {
			rows = append(rows, HitHDF5{
				evt_number: evtNumber,
				string_id:  int32(key.StringID),
				om_id:      int32(key.OMID),
				pmt_id:     int32(key.PmtID),
				charge:     hit.Charge,
				time:       hit.Time,
				width:      hit.Width,
				origin:     int32(hit.Origin),
			})
		}
	}
	return rows
}

func summaryRow(evtNumber int32, s evt.Summary) SummaryHDF5 {
	return SummaryHDF5{
		evt_number:     evtNumber,
		hits:           int32(s.Hits),
		signal_hits:    int32(s.SignalHits),
		modules:        int32(s.Modules),
		signal_modules: int32(s.SignalModules),
		total_charge:   s.TotalCharge,
		signal_charge:  s.SignalCharge,
		mean_time:      s.MeanTime,
		first_time:     s.FirstTime,
		last_time:      s.LastTime,
	}
}

func (w *Writer) Close() error {
	if w.options.Verbosity > 0 {
		w.options.Logger.Info(fmt.Sprintf("Closing file %s", w.Filename), "hdf5writer")
	}
	return w.closeAll()
}

// closeAll releases whatever has been created so far, so it also serves a
// writer whose construction stopped half way.
func (w *Writer) closeAll() error {
	var errs []error

	tables := []*table{
		w.EventTable, w.RunInfoTable, w.HeaderTable, w.SummaryTable,
		w.ParticleTable, w.RawHits, w.PhysicsHits, w.SimpleHits,
	}
	for _, t := range tables {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	groups := []struct {
		name  string
		group *hdf5.Group
	}{
		{"run", w.RunGroup},
		{"MC", w.MCGroup},
		{"hits", w.HitsGroup},
	}
	for _, g := range groups {
		if g.group == nil {
			continue
		}
		if err := g.group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s group: %w", g.name, err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}
	return errors.Join(errs...)
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}
