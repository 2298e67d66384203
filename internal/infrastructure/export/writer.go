package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/validation"
)

// Table file names inside a snapshot directory.
const (
	CustomersFile  = "customers.ndjson"
	FrameworksFile = "frameworks.ndjson"
	EventsFile     = "subscription_events.ndjson"
	AdoptionsFile  = "framework_adoptions.ndjson"
	ActivitiesFile = "compliance_activities.ndjson"
	ManifestFile   = "manifest.json"
	ReportFile     = "validation_report.json"
)

// Writer materializes a dataset as newline-delimited JSON, one file per
// table. Everything is staged in a temporary sibling directory and swapped
// into place with a rename, so a crashed run never leaves a half-written
// snapshot at the output path.
type Writer struct {
	logger *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// manifest is the snapshot's self-description.
type manifest struct {
	SnapshotID    string `json:"snapshot_id"`
	Seed          int64  `json:"seed"`
	ReferenceDate string `json:"reference_date"`
	Customers     int    `json:"customers"`
	Frameworks    int    `json:"frameworks"`
	Events        int    `json:"events"`
	Adoptions     int    `json:"adoptions"`
	Activities    int    `json:"activities"`
}

// Write stages the dataset and report under a temp directory next to dir,
// then atomically replaces dir with it.
func (w *Writer) Write(dir string, ds *generator.Dataset, report *validation.Report) error {
	parent := filepath.Dir(filepath.Clean(dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating output parent %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, filepath.Base(dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := w.writeAll(staging, ds, report); err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing previous snapshot %s: %w", dir, err)
	}
	if err := os.Rename(staging, dir); err != nil {
		return fmt.Errorf("publishing snapshot to %s: %w", dir, err)
	}

	w.logger.Info("snapshot written",
		zap.String("dir", dir),
		zap.String("snapshot_id", ds.SnapshotID.String()),
	)
	return nil
}

func (w *Writer) writeAll(dir string, ds *generator.Dataset, report *validation.Report) error {
	if err := writeNDJSON(filepath.Join(dir, CustomersFile), len(ds.Customers), func(i int) any { return ds.Customers[i] }); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, FrameworksFile), len(ds.Frameworks), func(i int) any { return ds.Frameworks[i] }); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, EventsFile), len(ds.Events), func(i int) any { return ds.Events[i] }); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, AdoptionsFile), len(ds.Adoptions), func(i int) any { return ds.Adoptions[i] }); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, ActivitiesFile), len(ds.Activities), func(i int) any { return ds.Activities[i] }); err != nil {
		return err
	}

	m := manifest{
		SnapshotID:    ds.SnapshotID.String(),
		Seed:          ds.Seed,
		ReferenceDate: ds.ReferenceDate.String(),
		Customers:     len(ds.Customers),
		Frameworks:    len(ds.Frameworks),
		Events:        len(ds.Events),
		Adoptions:     len(ds.Adoptions),
		Activities:    len(ds.Activities),
	}
	if err := writeJSON(filepath.Join(dir, ManifestFile), m); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, ReportFile), report)
}

// writeNDJSON writes one record per line. Records are fetched by index so
// callers do not have to copy their typed slices into []any.
func writeNDJSON(path string, n int, record func(int) any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for i := 0; i < n; i++ {
		if err := enc.Encode(record(i)); err != nil {
			return fmt.Errorf("encoding record %d of %s: %w", i, filepath.Base(path), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Sync()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
