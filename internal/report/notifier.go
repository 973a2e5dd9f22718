package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
)

// Notifier delivers a run report to an external collaborator (ticket system,
// chat webhook, audit sink). The engine does not depend on delivery
// succeeding; notification failures are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, rep *model.RunReport) error
}

// JSONNotifier writes the report as indented JSON, typically to stdout for
// the scheduler to capture.
type JSONNotifier struct {
	w io.Writer
}

// NewJSONNotifier builds a notifier over the given writer.
func NewJSONNotifier(w io.Writer) *JSONNotifier {
	return &JSONNotifier{w: w}
}

// Notify writes the report.
func (n *JSONNotifier) Notify(_ context.Context, rep *model.RunReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if _, err := fmt.Fprintln(n.w, string(data)); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}

// Dispatch hands the report to every notifier, logging failures without
// letting them affect the run outcome.
func Dispatch(ctx context.Context, log *logger.Logger, rep *model.RunReport, notifiers ...Notifier) {
	for _, n := range notifiers {
		if err := n.Notify(ctx, rep); err != nil {
			log.Error(err, "report notification failed")
		}
	}
}
