package celgen

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/vireodb/vireo/pkg/datatype"
	"github.com/vireodb/vireo/pkg/exec"
)

// cursorArtifact is a compiled filter and projection set for the row
// model. Programs are safe for concurrent evaluation; all per-execution
// state lives in the processor instances.
type cursorArtifact struct {
	desc        string
	columns     []string
	filter      cel.Program
	projections []cel.Program
}

func (a *cursorArtifact) String() string { return a.desc }

// NewCursorProcessor implements compile.CursorArtifact.
func (a *cursorArtifact) NewCursorProcessor() (exec.CursorProcessor, error) {
	return &cursorProcessor{
		artifact:   a,
		activation: make(map[string]any, len(a.columns)),
		scratch:    make([]datatype.Literal, len(a.projections)),
	}, nil
}

// cursorProcessor evaluates compiled programs row by row, reusing one
// activation map across rows.
type cursorProcessor struct {
	artifact   *cursorArtifact
	activation map[string]any
	scratch    []datatype.Literal

	processed int64
	emitted   int64
}

var _ exec.CursorProcessor = (*cursorProcessor)(nil)

func (p *cursorProcessor) String() string { return p.artifact.desc }

// ProcessCursor implements exec.CursorProcessor.
func (p *cursorProcessor) ProcessCursor(cur exec.Cursor, out *exec.RowBuffer) (int64, error) {
	cols := make(map[string]int, len(cur.Columns()))
	for i, name := range cur.Columns() {
		cols[name] = i
	}

	var read int64
	for cur.Next() {
		read++
		p.processed++

		for _, name := range p.artifact.columns {
			idx, ok := cols[name]
			if !ok {
				p.activation[name] = nil
				continue
			}
			p.activation[name] = toActivation(cur.Value(idx))
		}

		selected, err := p.evalFilter()
		if err != nil {
			return read, err
		}
		if !selected {
			continue
		}

		for i, projection := range p.artifact.projections {
			v, err := p.eval(projection)
			if err != nil {
				return read, err
			}
			p.scratch[i] = v
		}
		out.Append(p.scratch)
		p.emitted++
	}
	return read, cur.Err()
}

// RowsProcessed implements exec.CursorProcessor.
func (p *cursorProcessor) RowsProcessed() int64 { return p.processed }

// RowsEmitted implements exec.CursorProcessor.
func (p *cursorProcessor) RowsEmitted() int64 { return p.emitted }

// evalFilter interprets the filter result: NULL keeps nothing, and
// anything other than a bool is a type error.
func (p *cursorProcessor) evalFilter() (bool, error) {
	v, err := p.eval(p.artifact.filter)
	if err != nil {
		return false, err
	}
	if v.IsNull() {
		return false, nil
	}
	if v.Type() != datatype.Bool {
		return false, fmt.Errorf("filter evaluated to %s, expected %s", v.Type(), datatype.Bool)
	}
	return v.Bool(), nil
}

func (p *cursorProcessor) eval(program cel.Program) (datatype.Literal, error) {
	out, _, err := program.Eval(p.activation)
	if err != nil {
		return datatype.Literal{}, err
	}
	return toLiteral(out)
}

// toActivation converts a row value into the Go form the CEL runtime
// adapts natively. NULL values become nil.
func toActivation(v datatype.Literal) any {
	switch v.Type() {
	case datatype.Bool:
		return v.Bool()
	case datatype.String:
		return v.Str()
	case datatype.Integer:
		return v.Int()
	case datatype.Float:
		return v.Float()
	case datatype.Timestamp:
		return time.Unix(0, v.Ts()).UTC()
	}
	return nil
}

func toLiteral(v ref.Val) (datatype.Literal, error) {
	switch v := v.(type) {
	case types.Bool:
		return datatype.NewLiteral(bool(v)), nil
	case types.String:
		return datatype.NewLiteral(string(v)), nil
	case types.Int:
		return datatype.NewLiteral(int64(v)), nil
	case types.Double:
		return datatype.NewLiteral(float64(v)), nil
	case types.Timestamp:
		return datatype.NewTimestampLiteral(v.Time.UnixNano()), nil
	case types.Null:
		return datatype.NewNullLiteral(), nil
	}
	return datatype.Literal{}, fmt.Errorf("unsupported result type %s", v.Type().TypeName())
}
