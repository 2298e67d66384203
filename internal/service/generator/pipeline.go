package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/customer"
	derrors "github.com/phantomsec/compliance-dataset-generator/internal/domain/errors"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/subscription"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
)

// snapshotNamespace salts the deterministic snapshot id so ids from this
// generator never collide with other uuid5 producers.
var snapshotNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("compliance-dataset-generator"))

// Dataset is one complete generated snapshot: the five tables plus the
// run's identifying metadata.
type Dataset struct {
	SnapshotID    uuid.UUID             `json:"snapshot_id"`
	Seed          int64                 `json:"seed"`
	ReferenceDate values.Date           `json:"reference_date"`
	Customers     []*customer.Customer  `json:"-"`
	Frameworks    []catalog.Framework   `json:"-"`
	Events        []*subscription.Event `json:"-"`
	Adoptions     []*adoption.Adoption  `json:"-"`
	Activities    []*activity.Activity  `json:"-"`
}

// customerOutput holds one customer's downstream facts between the fan-out
// and the join barrier. Ids inside are per-customer ordinals.
type customerOutput struct {
	events     []*subscription.Event
	adoptions  []*adoption.Adoption
	activities [][]*activity.Activity // parallel to adoptions
	err        error
}

// Pipeline orchestrates the full generation run: customers first, then a
// worker pool fans the per-customer fact generation out over derived random
// streams, and after the join barrier ids are assigned sequentially in
// customer-id order. Output is byte-identical for any worker count because
// no stream is ever shared and ids are never assigned concurrently.
type Pipeline struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	logger     *zap.Logger
	customers  *CustomerGenerator
	events     *EventGenerator
	adoptions  *AdoptionGenerator
	activities *ActivityGenerator
}

func NewPipeline(cfg *config.Config, cat *catalog.Catalog, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		catalog:    cat,
		logger:     logger,
		customers:  NewCustomerGenerator(cfg, logger),
		events:     NewEventGenerator(cfg, logger),
		adoptions:  NewAdoptionGenerator(cfg, cat, logger),
		activities: NewActivityGenerator(cfg, logger),
	}
}

// Run generates a complete dataset.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	customers, err := p.customers.Generate()
	if err != nil {
		return nil, err
	}

	outputs := make([]customerOutput, len(customers))
	tasks := make(chan int)

	workers := p.cfg.Dataset.Workers
	if workers > len(customers) {
		workers = len(customers)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				outputs[i] = p.generateCustomerFacts(customers[i])
			}
		}()
	}

dispatch:
	for i := range customers {
		select {
		case <-ctx.Done():
			break dispatch
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, derrors.NewInternalError("generation canceled").WithCause(err)
	}
	for i := range outputs {
		if outputs[i].err != nil {
			return nil, fmt.Errorf("customer %d: %w", customers[i].ID, outputs[i].err)
		}
	}

	ds := p.assemble(customers, outputs)
	p.logger.Info("dataset generated",
		zap.String("snapshot_id", ds.SnapshotID.String()),
		zap.Int("customers", len(ds.Customers)),
		zap.Int("events", len(ds.Events)),
		zap.Int("adoptions", len(ds.Adoptions)),
		zap.Int("activities", len(ds.Activities)),
	)
	return ds, nil
}

// generateCustomerFacts produces one customer's events, adoptions and
// activities from a stream derived from the base seed and the customer id.
func (p *Pipeline) generateCustomerFacts(c *customer.Customer) customerOutput {
	r := newStream(deriveSeed(p.cfg.Dataset.Seed, c.ID))
	var out customerOutput

	out.events, out.err = p.events.GenerateForCustomer(r, c)
	if out.err != nil {
		return out
	}

	out.adoptions, out.err = p.adoptions.GenerateForCustomer(r, c)
	if out.err != nil {
		return out
	}

	out.activities = make([][]*activity.Activity, len(out.adoptions))
	for i, ad := range out.adoptions {
		f, ok := p.catalog.ByID(ad.FrameworkID)
		if !ok {
			out.err = derrors.NewConstraintError("UNKNOWN_FRAMEWORK",
				fmt.Sprintf("adoption references unknown framework %d", ad.FrameworkID))
			return out
		}
		out.activities[i], out.err = p.activities.GenerateForAdoption(r, c, ad, f)
		if out.err != nil {
			return out
		}
	}
	return out
}

// assemble flattens the per-customer outputs in customer-id order and
// rewrites the per-customer ordinals into dense sequential table ids.
func (p *Pipeline) assemble(customers []*customer.Customer, outputs []customerOutput) *Dataset {
	ds := &Dataset{
		Seed:          p.cfg.Dataset.Seed,
		ReferenceDate: values.DateOf(p.cfg.ReferenceDate()),
		Customers:     customers,
		Frameworks:    p.catalog.All(),
	}

	var eventID, adoptionID, activityID int64
	for i := range outputs {
		o := &outputs[i]

		for _, e := range o.events {
			eventID++
			e.ID = eventID
			ds.Events = append(ds.Events, e)
		}

		// Adoption ids are assigned first so the activities that reference
		// them by per-customer ordinal can be remapped in the same pass.
		globalAdoption := make(map[int64]int64, len(o.adoptions))
		for _, ad := range o.adoptions {
			adoptionID++
			globalAdoption[ad.ID] = adoptionID
			ad.ID = adoptionID
			ds.Adoptions = append(ds.Adoptions, ad)
		}
		for _, acts := range o.activities {
			for _, a := range acts {
				activityID++
				a.ID = activityID
				a.AdoptionID = globalAdoption[a.AdoptionID]
				ds.Activities = append(ds.Activities, a)
			}
		}
	}

	ds.SnapshotID = snapshotID(p.cfg.Dataset.Seed, len(ds.Customers), len(ds.Events), len(ds.Adoptions), len(ds.Activities))
	return ds
}

// snapshotID derives a stable uuid5 from the seed and table sizes, so a
// rerun with identical inputs reports the identical snapshot.
func snapshotID(seed int64, customers, events, adoptions, activities int) uuid.UUID {
	name := fmt.Sprintf("seed=%d;customers=%d;events=%d;adoptions=%d;activities=%d",
		seed, customers, events, adoptions, activities)
	return uuid.NewSHA1(snapshotNamespace, []byte(name))
}
