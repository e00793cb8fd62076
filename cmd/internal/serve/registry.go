package serve

import (
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	errcode "github.com/errcode/go"
)

var ErrNotFound = errors.New("not found")

const tableService = "service"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableService: {
			Name: tableService,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
				"pid": {
					Name:         "pid",
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "PID"},
				},
			},
		},
	},
}

// Record is one service's row: which guest ran last, how often the
// service has run, and the status it reported.
type Record struct {
	Name   string
	PID    string
	Status errcode.Code
	Runs   uint64
	When   time.Time
}

// Registry tracks the latest status of every supervised service.
// Reads and writes may race freely; memdb serializes them.
type Registry struct {
	db *memdb.MemDB
}

func NewRegistry() (*Registry, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, errors.Wrap(err, "create registry")
	}

	return &Registry{db: db}, nil
}

// Observe records the outcome of one run.
func (reg *Registry) Observe(name, pid string, status errcode.Code) error {
	txn := reg.db.Txn(true)
	defer txn.Abort()

	rec := &Record{
		Name:   name,
		PID:    pid,
		Status: status,
		Runs:   1,
		When:   time.Now(),
	}

	if v, err := txn.First(tableService, "id", name); err != nil {
		return err
	} else if v != nil {
		rec.Runs += v.(*Record).Runs
	}

	if err := txn.Insert(tableService, rec); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

func (reg *Registry) Get(name string) (*Record, error) {
	txn := reg.db.Txn(false)
	defer txn.Abort()

	v, err := txn.First(tableService, "id", name)
	if err != nil {
		return nil, err
	} else if v == nil {
		return nil, ErrNotFound
	}

	return v.(*Record), nil
}

// List returns every record in name order.
func (reg *Registry) List() ([]*Record, error) {
	txn := reg.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableService, "id")
	if err != nil {
		return nil, err
	}

	var recs []*Record
	for v := it.Next(); v != nil; v = it.Next() {
		recs = append(recs, v.(*Record))
	}

	return recs, nil
}
