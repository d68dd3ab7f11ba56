package compile

import (
	"fmt"
	"strings"

	"github.com/vireodb/vireo/pkg/exec"
)

// CursorProcessorFactory produces independent row processor instances from
// one compiled artifact. Factories stay valid for as long as the caller
// holds them, even after the backing cache entry is evicted.
type CursorProcessorFactory struct {
	artifact CursorArtifact
}

// New instantiates a fresh processor. Each instance carries its own state
// and counters, so instances may be used concurrently with each other.
// Instantiation failures are transient and reported as *InstantiationError;
// they do not poison the artifact, and retrying is legitimate.
func (f *CursorProcessorFactory) New() (exec.CursorProcessor, error) {
	processor, err := f.artifact.NewCursorProcessor()
	if err != nil {
		return nil, &InstantiationError{Artifact: f.artifact.String(), cause: err}
	}
	return processor, nil
}

func (f *CursorProcessorFactory) String() string {
	return fmt.Sprintf("CursorProcessorFactory{artifact=%s}", f.artifact)
}

// PageProcessorFactory produces independent page processor instances by
// instantiating its filter artifact (when present) and each projection
// artifact and composing the results. A nil filter artifact yields
// processors that select every row.
type PageProcessorFactory struct {
	filter      PageFilterArtifact
	projections []PageProjectionArtifact
}

// New instantiates a fresh page processor. Failures are reported as
// *InstantiationError and leave the factory reusable.
func (f *PageProcessorFactory) New() (*exec.PageProcessor, error) {
	var filter exec.PageFilter
	if f.filter != nil {
		instance, err := f.filter.NewPageFilter()
		if err != nil {
			return nil, &InstantiationError{Artifact: f.filter.String(), cause: err}
		}
		filter = instance
	}

	projections := make([]exec.PageProjection, len(f.projections))
	for i, artifact := range f.projections {
		instance, err := artifact.NewPageProjection()
		if err != nil {
			return nil, &InstantiationError{Artifact: artifact.String(), cause: err}
		}
		projections[i] = instance
	}

	return exec.NewPageProcessor(filter, projections), nil
}

func (f *PageProcessorFactory) String() string {
	var sb strings.Builder
	sb.WriteString("PageProcessorFactory{filter=")
	if f.filter != nil {
		sb.WriteString(f.filter.String())
	} else {
		sb.WriteString("true")
	}
	sb.WriteString(", projections=[")
	for i, projection := range f.projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(projection.String())
	}
	sb.WriteString("]}")
	return sb.String()
}
