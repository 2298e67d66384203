package export_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/export"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/validation"
	"github.com/phantomsec/compliance-dataset-generator/internal/testutil/fixtures"
)

func sampleDataset(t *testing.T) *generator.Dataset {
	t.Helper()
	c := fixtures.NewCustomerBuilder(t).Build()
	ad := fixtures.NewAdoptionBuilder(t).Build()

	return &generator.Dataset{
		SnapshotID:    uuid.MustParse("9b2f61a5-0b6e-5a39-9f14-2f6f6c1f2a01"),
		Seed:          42,
		ReferenceDate: values.MustParseDate("2025-06-30"),
		Customers:     []*customer.Customer{c},
		Frameworks:    catalog.Default().All(),
		Events: []*subscription.Event{
			fixtures.NewEventBuilder(t).Build(),
			fixtures.NewEventBuilder(t).WithID(2).WithDate("2023-04-05").
				WithType(subscription.EventTypeRenewal).Build(),
		},
		Adoptions: []*adoption.Adoption{ad},
		Activities: []*activity.Activity{
			fixtures.NewActivityBuilder(t).WithAdoption(ad).Build(),
		},
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	require.NoError(t, scanner.Err())
	return n
}

func TestWriter_WritesAllTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	ds := sampleDataset(t)
	report := validation.NewReport(ds.SnapshotID.String())

	require.NoError(t, export.NewWriter(zap.NewNop()).Write(dir, ds, report))

	assert.Equal(t, 1, countLines(t, filepath.Join(dir, export.CustomersFile)))
	assert.Equal(t, 8, countLines(t, filepath.Join(dir, export.FrameworksFile)))
	assert.Equal(t, 2, countLines(t, filepath.Join(dir, export.EventsFile)))
	assert.Equal(t, 1, countLines(t, filepath.Join(dir, export.AdoptionsFile)))
	assert.Equal(t, 1, countLines(t, filepath.Join(dir, export.ActivitiesFile)))

	// No staging leftovers beside the published snapshot.
	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snapshot", entries[0].Name())
}

func TestWriter_RecordsAreFlatJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	ds := sampleDataset(t)

	require.NoError(t, export.NewWriter(zap.NewNop()).Write(dir, ds, validation.NewReport(ds.SnapshotID.String())))

	data, err := os.ReadFile(filepath.Join(dir, export.CustomersFile))
	require.NoError(t, err)

	var row map[string]any
	require.NoError(t, json.Unmarshal(data, &row))
	assert.Equal(t, float64(1), row["customer_id"])
	assert.Equal(t, "mid_market", row["segment"])
	assert.Equal(t, "2022-03-15", row["signup_date"])

	f, err := os.Open(filepath.Join(dir, export.EventsFile))
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
	assert.Equal(t, "new", row["event_type"])
	assert.Equal(t, "1500", row["mrr_amount"])
}

func TestWriter_ManifestAndReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	ds := sampleDataset(t)
	report := validation.NewReport(ds.SnapshotID.String())
	report.Add(validation.CheckResult{Name: "customer_segment_bands", Status: validation.StatusPass})

	require.NoError(t, export.NewWriter(zap.NewNop()).Write(dir, ds, report))

	var m map[string]any
	data, err := os.ReadFile(filepath.Join(dir, export.ManifestFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, ds.SnapshotID.String(), m["snapshot_id"])
	assert.Equal(t, float64(2), m["events"])
	assert.Equal(t, "2025-06-30", m["reference_date"])

	var r validation.Report
	data, err = os.ReadFile(filepath.Join(dir, export.ReportFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, validation.StatusPass, r.Status)
	assert.Len(t, r.Checks, 1)
}

func TestWriter_ReplacesPreviousSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	ds := sampleDataset(t)
	require.NoError(t, export.NewWriter(zap.NewNop()).Write(dir, ds, validation.NewReport(ds.SnapshotID.String())))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, export.CustomersFile))
	assert.NoError(t, err)
}
