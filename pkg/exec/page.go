package exec

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// PageFilter selects rows from a page, one Arrow record at a time.
// Instances are stateful and owned by a single logical execution.
type PageFilter interface {
	fmt.Stringer

	// Filter returns the indexes of the rows of page selected by the
	// predicate, in ascending order.
	Filter(page arrow.Record) ([]int, error)
}

// PageProjection produces one output column from a page. Instances are
// stateful and owned by a single logical execution.
type PageProjection interface {
	fmt.Stringer

	// Project evaluates the projection over every row of page. The caller
	// assumes ownership of the returned array.
	Project(page arrow.Record) (arrow.Array, error)
}

// PageProcessor evaluates a filter and a set of projections over pages of
// rows. The filter narrows the row set once per page; every projection is
// evaluated over the identical narrowed page, each producing one output
// column. Instances are stateful and must not be shared across goroutines.
type PageProcessor struct {
	filter      PageFilter // nil selects all rows
	projections []PageProjection
}

// NewPageProcessor composes a processor from a filter instance and ordered
// projection instances. A nil filter selects all rows.
func NewPageProcessor(filter PageFilter, projections []PageProjection) *PageProcessor {
	return &PageProcessor{filter: filter, projections: projections}
}

// ProcessPage evaluates the processor over one page. The returned record
// has one column per projection, named c0..cn, and one row per selected
// input row. The caller retains ownership of page and assumes ownership of
// the returned record.
func (p *PageProcessor) ProcessPage(page arrow.Record) (arrow.Record, error) {
	selected := page
	if p.filter != nil {
		keep, err := p.filter.Filter(page)
		if err != nil {
			return nil, fmt.Errorf("filtering page: %w", err)
		}
		selected = FilterRecord(page, keep)
		defer selected.Release()
	}

	fields := make([]arrow.Field, len(p.projections))
	columns := make([]arrow.Array, len(p.projections))
	for i, proj := range p.projections {
		col, err := proj.Project(selected)
		if err != nil {
			for _, built := range columns[:i] {
				built.Release()
			}
			return nil, fmt.Errorf("projecting column %d: %w", i, err)
		}
		fields[i] = arrow.Field{Name: fmt.Sprintf("c%d", i), Type: col.DataType(), Nullable: true}
		columns[i] = col
	}

	out := array.NewRecord(arrow.NewSchema(fields, nil), columns, selected.NumRows())
	for _, col := range columns {
		col.Release()
	}
	return out, nil
}

func (p *PageProcessor) String() string {
	filter := "true"
	if p.filter != nil {
		filter = p.filter.String()
	}
	projections := make([]string, len(p.projections))
	for i, proj := range p.projections {
		projections[i] = proj.String()
	}
	return fmt.Sprintf("PageProcessor{filter=%s, projections=[%s]}", filter, strings.Join(projections, ", "))
}

// FilterRecord materializes the subset of page containing only the rows at
// the given indexes, which must be ascending. The caller assumes ownership
// of the returned record.
func FilterRecord(page arrow.Record, keep []int) arrow.Record {
	mem := memory.NewGoAllocator()
	fields := page.Schema().Fields()

	builders := make([]array.Builder, len(fields))
	defer func() {
		for _, b := range builders {
			if b != nil {
				b.Release()
			}
		}
	}()

	additions := make([]func(int), len(fields))

	for i, field := range fields {
		switch field.Type.ID() {
		case arrow.BOOL:
			builder := array.NewBooleanBuilder(mem)
			builders[i] = builder
			src := page.Column(i).(*array.Boolean)
			additions[i] = func(offset int) {
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.STRING:
			builder := array.NewStringBuilder(mem)
			builders[i] = builder
			src := page.Column(i).(*array.String)
			additions[i] = func(offset int) {
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.INT64:
			builder := array.NewInt64Builder(mem)
			builders[i] = builder
			src := page.Column(i).(*array.Int64)
			additions[i] = func(offset int) {
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.FLOAT64:
			builder := array.NewFloat64Builder(mem)
			builders[i] = builder
			src := page.Column(i).(*array.Float64)
			additions[i] = func(offset int) {
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		case arrow.TIMESTAMP:
			builder := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"})
			builders[i] = builder
			src := page.Column(i).(*array.Timestamp)
			additions[i] = func(offset int) {
				if src.IsNull(offset) {
					builder.AppendNull()
					return
				}
				builder.Append(src.Value(offset))
			}

		default:
			panic(fmt.Sprintf("unimplemented type in FilterRecord: %s", field.Type.Name()))
		}
	}

	for _, offset := range keep {
		for _, add := range additions {
			add(offset)
		}
	}

	arrays := make([]arrow.Array, len(fields))
	for i, builder := range builders {
		arrays[i] = builder.NewArray()
	}

	out := array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(len(keep)))
	for _, arr := range arrays {
		arr.Release()
	}
	return out
}
