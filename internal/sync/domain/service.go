package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Run is the handle returned for an in-flight reconciliation pass.
// Done is closed when the background loop finishes, Cancel stops the
// loop at the next customer boundary.
type Run struct {
	ReportID snowflake.ID

	done   chan struct{}
	cancel context.CancelFunc
}

func NewRun(reportID snowflake.ID, cancel context.CancelFunc) *Run {
	return &Run{
		ReportID: reportID,
		done:     make(chan struct{}),
		cancel:   cancel,
	}
}

func (r *Run) Done() <-chan struct{} { return r.done }

func (r *Run) Cancel() { r.cancel() }

// Finish is called by the engine once, when the background loop exits.
func (r *Run) Finish() { close(r.done) }

type Service interface {
	// Start claims the sync lock, opens a running report and spawns
	// the background loop. Returns ErrSyncInProgress when another pass
	// already holds the lock.
	Start(ctx context.Context) (*Run, error)
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context) ([]Report, error)
	ActiveReports(ctx context.Context) ([]Report, error)
}

var (
	ErrSyncInProgress  = errors.New("sync_in_progress")
	ErrInvalidReportID = errors.New("invalid_report_id")
	ErrReportNotFound  = errors.New("report_not_found")
)
