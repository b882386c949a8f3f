package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"churnlens/internal/config"
	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts/domain"
)

// Dataset is a loaded, immutable customer table together with its provenance
type Dataset struct {
	Records []domain.CustomerRecord
	Info    domain.DatasetInfo
}

// Loader reads customer tables from disk
type Loader struct {
	sheet       string
	maxReported int
	validate    *validator.Validate
	logger      *slog.Logger
	metrics     *infrastructure.ChurnMetrics
}

// NewLoader creates a loader. A nil metrics value disables instrumentation.
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger, metrics *infrastructure.ChurnMetrics) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	maxReported := cfg.MaxReportedErrors
	if maxReported < 1 {
		maxReported = config.DefaultMaxReportedErrors
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("csv"); name != "" {
			return name
		}
		return fld.Name
	})

	return &Loader{
		sheet:       cfg.Sheet,
		maxReported: maxReported,
		validate:    v,
		logger:      infrastructure.WithComponent(logger, "dataset_loader"),
		metrics:     metrics,
	}
}

// Load reads the dataset at path with default settings
func Load(path string) ([]domain.CustomerRecord, error) {
	return NewLoader(config.DatasetConfig{}, nil, nil).Load(context.Background(), path)
}

// Load reads the dataset at path and returns its records
func (l *Loader) Load(ctx context.Context, path string) ([]domain.CustomerRecord, error) {
	ds, err := l.LoadDataset(ctx, path)
	if err != nil {
		return nil, err
	}
	return ds.Records, nil
}

// LoadDataset reads the dataset at path and returns the records with their provenance
func (l *Loader) LoadDataset(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, "dataset.load")
	defer span.End()

	format, err := DetectFormat(path)
	if err != nil {
		loadErr := &LoadError{Path: path, Err: err}
		infrastructure.RecordError(span, loadErr)
		return nil, loadErr
	}

	l.logger.InfoContext(ctx, "loading dataset",
		slog.String("path", path),
		slog.String("format", string(format)))

	tbl, err := readTable(path, format, l.sheet)
	if err != nil {
		loadErr := &LoadError{Path: path, Err: err}
		l.logger.ErrorContext(ctx, "dataset unreadable", slog.String("path", path), slog.String("error", err.Error()))
		infrastructure.RecordError(span, loadErr)
		return nil, loadErr
	}

	idx, missing := indexHeader(tbl.header)
	if len(missing) > 0 {
		parseErr := &ParseError{Path: path, Missing: missing, Err: ErrMissingColumns}
		l.logger.ErrorContext(ctx, "dataset header incomplete",
			slog.String("path", path),
			slog.Any("missing", missing))
		infrastructure.RecordError(span, parseErr)
		return nil, parseErr
	}

	records := make([]domain.CustomerRecord, 0, len(tbl.rows))
	seen := make(map[string]int, len(tbl.rows))
	var rowErrs []RowError
	total, unknown := 0, 0

	reject := func(re RowError) {
		total++
		l.logger.ErrorContext(ctx, "invalid dataset row",
			slog.Int("line", re.Line),
			slog.String("customer_id", re.CustomerID),
			slog.String("column", re.Column),
			slog.String("value", re.Value),
			slog.String("error", re.Err.Error()))
		if len(rowErrs) < l.maxReported {
			rowErrs = append(rowErrs, re)
		}
	}

	for _, row := range tbl.rows {
		rec, errs := l.coerce(idx, row)
		for _, re := range errs {
			reject(re)
		}
		if len(errs) > 0 {
			continue
		}

		if first, dup := seen[rec.CustomerID]; dup {
			reject(RowError{
				Line:       row.line,
				CustomerID: rec.CustomerID,
				Column:     ColCustomerID,
				Value:      rec.CustomerID,
				Err:        fmt.Errorf("%w (first seen on line %d)", ErrDuplicateID, first),
			})
			continue
		}
		seen[rec.CustomerID] = row.line

		if rec.Geography == domain.GeographyUnknown {
			unknown++
			raw, _ := idx.cell(row.cells, ColGeography)
			l.logger.WarnContext(ctx, "unrecognised geography mapped to Unknown",
				slog.Int("line", row.line),
				slog.String("customer_id", rec.CustomerID),
				slog.String("value", raw))
		}
		records = append(records, rec)
	}

	l.metrics.RecordLoad(ctx, string(format), len(records), total, unknown, time.Since(start).Seconds())

	if total > 0 {
		parseErr := &ParseError{Path: path, Rows: rowErrs, Total: total, Err: ErrInvalidRows}
		l.logger.ErrorContext(ctx, "dataset rejected",
			slog.String("path", path),
			slog.Int("invalid_rows", total))
		infrastructure.RecordError(span, parseErr)
		return nil, parseErr
	}

	fingerprint, err := Fingerprint(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("unknown_geography", unknown),
		slog.Duration("duration", time.Since(start)))

	return &Dataset{
		Records: records,
		Info: domain.DatasetInfo{
			Path:        path,
			Rows:        len(records),
			UnknownRows: unknown,
			Fingerprint: fingerprint,
			LoadedAt:    time.Now().UTC(),
		},
	}, nil
}

// coerce converts one row into a record, returning every cell that failed
func (l *Loader) coerce(idx columnIndex, row sourceRow) (domain.CustomerRecord, []RowError) {
	var rec domain.CustomerRecord
	var errs []RowError

	id, _ := idx.cell(row.cells, ColCustomerID)
	rec.CustomerID = id

	fail := func(col, value string, err error) {
		errs = append(errs, RowError{Line: row.line, CustomerID: id, Column: col, Value: value, Err: err})
	}

	if id == "" {
		fail(ColCustomerID, "", ErrEmptyValue)
	}

	raw, _ := idx.cell(row.cells, ColGeography)
	rec.Geography, _ = domain.ParseGeography(raw)

	intField := func(col string, dst *int) {
		raw, ok := idx.cell(row.cells, col)
		if !ok {
			return
		}
		v, err := parseInt(raw)
		if err != nil {
			fail(col, raw, err)
			return
		}
		*dst = v
	}
	floatField := func(col string, dst *float64) {
		raw, ok := idx.cell(row.cells, col)
		if !ok {
			return
		}
		v, err := parseFloat(raw)
		if err != nil {
			fail(col, raw, err)
			return
		}
		*dst = v
	}
	flagField := func(col string, dst *bool) {
		raw, ok := idx.cell(row.cells, col)
		if !ok {
			return
		}
		v, err := parseFlag(raw)
		if err != nil {
			fail(col, raw, err)
			return
		}
		*dst = v
	}

	rec.Surname, _ = idx.cell(row.cells, ColSurname)
	rec.Gender, _ = idx.cell(row.cells, ColGender)
	intField(ColCreditScore, &rec.CreditScore)
	intField(ColAge, &rec.Age)
	intField(ColTenure, &rec.Tenure)
	floatField(ColBalance, &rec.Balance)
	intField(ColNumProducts, &rec.NumProducts)
	flagField(ColHasCreditCard, &rec.HasCreditCard)
	flagField(ColIsActive, &rec.IsActive)
	floatField(ColEstimatedSalary, &rec.EstimatedSalary)
	flagField(ColExited, &rec.HasChurned)

	if len(errs) > 0 {
		return rec, errs
	}

	if err := l.validate.Struct(rec); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fail(fe.Field(), fmt.Sprint(fe.Value()), fmt.Errorf("must satisfy %s", constraint(fe)))
			}
		} else {
			fail("", "", err)
		}
	}
	return rec, errs
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return strings.TrimSpace(fe.Tag() + "=" + fe.Param())
}
