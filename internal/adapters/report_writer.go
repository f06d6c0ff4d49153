package adapters

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

const (
	markerUpdated     = ">"
	markerConstrained = "~"
	markerBlocked     = "!"
	markerNonRegistry = "-"
	markerFailed      = "X"
	arrow             = "→"
)

// Every line reserves room for three markers so names stay aligned.
const markerColumns = 6

// ReportWriter prints one line per package. Markers in front of the name:
// ">" updated, "~" constrained by a non-default policy, "!" newer versions
// held back by the minimum age, "-" not resolved against the registry and
// "X" failed, with the reason on the following line.
type ReportWriter struct {
	Out   io.Writer
	width int
}

func NewReportWriter(out io.Writer) *ReportWriter {
	return &ReportWriter{Out: out}
}

func (w *ReportWriter) Start(nameWidth int) error {
	w.width = nameWidth
	return nil
}

func (w *ReportWriter) Group(name string) error {
	return w.write(name + ":\n")
}

func (w *ReportWriter) Package(result types.PackageResult) error {
	return w.write(FormatResult(result, w.width))
}

func (w *ReportWriter) write(text string) error {
	if _, err := io.WriteString(w.Out, text); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

// FormatResult renders a result as one or two newline-terminated lines.
func FormatResult(result types.PackageResult, width int) string {
	var markers []string
	var fields []string
	constrained := result.Policy != "" && result.Policy != types.DefaultPolicy
	heldBack := result.Decision.Newest != "" && result.Decision.Newest != result.Decision.Wanted

	switch {
	case !result.Type.IsRegistry() && result.Type != "":
		markers = append(markers, markerNonRegistry)
		fields = append(fields, change(result))
	case result.Status == types.StatusFailed:
		markers = append(markers, markerFailed)
		fields = append(fields, result.Declared, policyLabel(result.Policy))
		if result.Decision.Failure == types.FailureAgeBlocked && heldBack {
			markers = append(markers, markerBlocked)
			fields = append(fields, markerBlocked+result.Decision.Newest)
		}
	default:
		if result.Changed() {
			markers = append(markers, markerUpdated)
		}
		fields = append(fields, change(result))
		if constrained {
			markers = append(markers, markerConstrained)
			fields = append(fields, result.Policy)
			if result.Latest != "" && result.Latest != result.Decision.Wanted {
				fields = append(fields, markerConstrained+result.Latest)
			}
		}
		if heldBack {
			markers = append(markers, markerBlocked)
			fields = append(fields, markerBlocked+result.Decision.Newest)
		}
	}

	var line strings.Builder
	prefix := ""
	for _, marker := range markers {
		prefix += marker + " "
	}
	fmt.Fprintf(&line, "%-*s%-*s %s\n", markerColumns, prefix, width, result.Name, strings.Join(fields, " "))
	if result.Status == types.StatusFailed && result.Decision.Reason != "" {
		fmt.Fprintf(&line, "%s%s\n", strings.Repeat(" ", markerColumns+2), result.Decision.Reason)
	}
	return line.String()
}

func change(result types.PackageResult) string {
	if result.Changed() {
		return result.Declared + " " + arrow + " " + result.Updated
	}
	return result.Declared
}

func policyLabel(policy string) string {
	if policy == "" {
		return types.DefaultPolicy
	}
	return policy
}

var _ ports.ReportPort = (*ReportWriter)(nil)
