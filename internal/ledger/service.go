// Package ledger owns the formula store and its in-memory read projection.
// All mutations go through Service, which serializes them and keeps the
// cache in step with the store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"colorledger/internal/analytics"
	"colorledger/internal/ingest"
	applog "colorledger/internal/log"
	"colorledger/models"
)

// firstDataRow is the spreadsheet row number of the first row after the header.
const firstDataRow = 2

var nowFunc = time.Now

// ReadFunc loads the typed cells of a spreadsheet, header row included.
type ReadFunc func(path string) ([][]any, error)

// Options configures a Service.
type Options struct {
	// Book labels formulas created by imports.
	Book string
	// WipeCodeHash is the bcrypt hash guarding Wipe. Empty disables wiping.
	WipeCodeHash string
	// ReadFile reads spreadsheets for Import.
	ReadFile ReadFunc
}

// ImportResult describes the outcome of an import.
type ImportResult struct {
	ImportedCount int
	Duplicates    int
	// Errors lists every failing row when the import was rejected.
	Errors []error
}

// Service is the single writer of the ledger.
type Service struct {
	db       *gorm.DB
	cache    *Cache
	book     string
	wipeHash []byte
	readFile ReadFunc

	writeMu sync.Mutex
}

// New returns a Service over database with an empty cache. Call Reload to
// populate it.
func New(database *gorm.DB, opts Options) (*Service, error) {
	if database == nil {
		return nil, errors.New("ledger: database handle is nil")
	}
	book := strings.TrimSpace(opts.Book)
	if book == "" {
		return nil, errors.New("ledger: import book must not be empty")
	}

	return &Service{
		db:       database,
		cache:    NewCache(),
		book:     book,
		wipeHash: []byte(opts.WipeCodeHash),
		readFile: opts.ReadFile,
	}, nil
}

// Book returns the label given to imported formulas.
func (s *Service) Book() string {
	return s.book
}

// WipeEnabled reports whether a wipe code is configured.
func (s *Service) WipeEnabled() bool {
	return len(s.wipeHash) > 0
}

// Snapshot returns the current cache snapshot.
func (s *Service) Snapshot() *Snapshot {
	return s.cache.Load()
}

// List returns the cached formulas ordered by page and row.
func (s *Service) List() []models.Formula {
	formulas := s.cache.Load().Formulas
	out := make([]models.Formula, len(formulas))
	for idx, formula := range formulas {
		out[idx] = formula.Clone()
	}
	return out
}

// Get returns the cached formula with id.
func (s *Service) Get(id string) (models.Formula, error) {
	formula, ok := s.cache.Load().Lookup(id)
	if !ok {
		return models.Formula{}, ErrNotFound
	}
	return formula.Clone(), nil
}

// Analytics summarizes the cached formulas.
func (s *Service) Analytics() analytics.Summary {
	return analytics.Aggregate(s.cache.Load().Formulas)
}

// Reload rebuilds the cache from the store. A failed reload leaves the
// cache empty and is only logged.
func (s *Service) Reload(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) {
	formulas, err := loadFormulas(ctx, s.db)
	if err != nil {
		s.cache.Replace(nil)
		applog.Error(ctx, "cache reload failed, serving empty ledger", "error", &CacheReloadError{Err: err})
		return
	}

	snapshot := s.cache.Replace(formulas)
	applog.Debug(ctx, "cache reloaded", "formulas", len(formulas), "version", snapshot.Version)
}

// Import reads the spreadsheet at path and imports its data rows.
func (s *Service) Import(ctx context.Context, path string) (ImportResult, error) {
	if s.readFile == nil {
		return ImportResult{}, errors.New("ledger: no spreadsheet reader configured")
	}

	ctx = applog.WithAttrs(ctx, "file", path)
	rows, err := s.readFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrUnreadableSpreadsheet, err)
	}
	return s.ImportRows(ctx, rows)
}

// ImportRows imports spreadsheet rows whose first element is the header.
// Any invalid row rejects the whole batch with ErrInvalidRows; a batch made
// only of known formulas returns ErrNoNewRecords.
func (s *Service) ImportRows(ctx context.Context, rows [][]any) (ImportResult, error) {
	if len(rows) <= 1 {
		return ImportResult{}, ingest.ErrEmptySheet
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	batch, errs := ingest.Plan(rows[1:], firstDataRow, s.book, s.cache.Load().Formulas)
	if len(errs) > 0 {
		applog.Info(ctx, "import rejected", "invalid_rows", len(errs))
		return ImportResult{Errors: errs}, ErrInvalidRows
	}
	if batch.Grouped == 0 {
		return ImportResult{}, ingest.ErrEmptySheet
	}

	result := ImportResult{Duplicates: batch.Duplicates}
	if len(batch.Formulas) == 0 {
		applog.Info(ctx, "import found no new records", "duplicates", batch.Duplicates)
		return result, ErrNoNewRecords
	}

	if err := insertFormulas(ctx, s.db, batch.Formulas); err != nil {
		applog.Error(ctx, "import transaction failed", "error", err, "formulas", len(batch.Formulas))
		return ImportResult{}, &StoreWriteError{Op: "insert formulas", Err: err}
	}

	s.reload(ctx)

	result.ImportedCount = len(batch.Formulas)
	applog.Info(ctx, "import committed", "imported", result.ImportedCount, "duplicates", result.Duplicates, "book", s.book)
	return result, nil
}

// Wipe deletes every formula once code matches the configured hash.
func (s *Service) Wipe(ctx context.Context, code string) error {
	if !s.WipeEnabled() {
		return ErrWipeDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.wipeHash, []byte(code)); err != nil {
		applog.Warn(ctx, "wipe rejected")
		return ErrInvalidWipeCode
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := deleteAll(ctx, s.db); err != nil {
		applog.Error(ctx, "wipe transaction failed", "error", err)
		return &StoreWriteError{Op: "wipe", Err: err}
	}

	s.reload(ctx)
	applog.Info(ctx, "ledger wiped")
	return nil
}
