package interp

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/vireodb/vireo/pkg/compile"
	"github.com/vireodb/vireo/pkg/exec"
	"github.com/vireodb/vireo/pkg/expr"
	"github.com/vireodb/vireo/pkg/util/arrowtest"
)

// TestCompilerIntegration drives both models through a real Compiler backed
// by this package, from expressions to processed rows.
func TestCompilerIntegration(t *testing.T) {
	c, err := compile.New(compile.Params{
		Config:        compile.Config{MaxCacheEntries: compile.DefaultMaxCacheEntries},
		CursorBackend: New(),
		PageBackend:   New(),
	})
	require.NoError(t, err)

	filter := binary(col("age"), expr.BinaryOpGt, intLit(21))
	projections := []expr.Expression{col("name")}

	t.Run("cursor model", func(t *testing.T) {
		factory, err := c.CompileCursorProcessor(filter, projections, nil)
		require.NoError(t, err)

		processor, err := factory.New()
		require.NoError(t, err)

		var out exec.RowBuffer
		read, err := processor.ProcessCursor(testCursor(), &out)
		require.NoError(t, err)
		require.Equal(t, int64(4), read)
		require.Equal(t, 2, out.Len())

		// Structurally equal expressions resolve from the cache, and the
		// shared artifact still hands out fresh instances.
		again, err := c.CompileCursorProcessor(
			binary(col("age"), expr.BinaryOpGt, intLit(21)),
			[]expr.Expression{col("name")},
			nil,
		)
		require.NoError(t, err)

		stats := c.CacheStats()
		require.Equal(t, uint64(1), stats.Hits)
		require.Equal(t, uint64(1), stats.Misses)
		require.Equal(t, uint64(1), stats.Compilations)

		fresh, err := again.New()
		require.NoError(t, err)
		require.Equal(t, int64(0), fresh.RowsProcessed())
	})

	t.Run("page model", func(t *testing.T) {
		factory, err := c.CompilePageProcessor(filter, projections)
		require.NoError(t, err)

		processor, err := factory.New()
		require.NoError(t, err)

		mem := memory.NewGoAllocator()
		page := testPage(t, mem)
		defer page.Release()

		out, err := processor.ProcessPage(page)
		require.NoError(t, err)
		defer out.Release()

		rows, err := arrowtest.RecordRows(out)
		require.NoError(t, err)
		require.Equal(t, arrowtest.Rows{
			{"c0": "alice"},
			{"c0": "dana"},
		}, rows)
	})

	t.Run("generation failures carry expression context", func(t *testing.T) {
		_, err := c.CompileCursorProcessor(
			binary(col("name"), expr.BinaryOpMatchRe, expr.NewLiteral("(")),
			nil,
			nil,
		)

		var compileErr *compile.CompileError
		require.ErrorAs(t, err, &compileErr)
		require.Contains(t, compileErr.Filter, "MATCH_RE")
		require.ErrorContains(t, err, "error parsing regexp")
	})
}
