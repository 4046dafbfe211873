package job

import (
	"context"
	"path"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/clinicbill/internal/export"
	"github.com/xxxsen/clinicbill/internal/filestore"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
)

type Snapshotter interface {
	Snapshot(ctx context.Context, d export.Deliverer) (int, error)
}

// ExportSnapshotJob writes every dataset in every format under
// snapshots/<YYYY-MM-DD>/ in the file store.
type ExportSnapshotJob struct {
	exports Snapshotter
	store   filestore.Store
	clock   timeutil.Clock
}

func NewExportSnapshotJob(exports Snapshotter, store filestore.Store, clock timeutil.Clock) *ExportSnapshotJob {
	if clock == nil {
		clock = timeutil.System
	}
	return &ExportSnapshotJob{exports: exports, store: store, clock: clock}
}

func (j *ExportSnapshotJob) Name() string {
	return "export_snapshot"
}

func (j *ExportSnapshotJob) Run(ctx context.Context) error {
	if j.exports == nil || j.store == nil {
		return nil
	}
	prefix := path.Join("snapshots", timeutil.DateStamp(j.clock.Now())) + "/"
	count, err := j.exports.Snapshot(ctx, export.ToStore(j.store, prefix))
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("export snapshot written",
		zap.String("store", j.store.Type()),
		zap.String("prefix", prefix),
		zap.Int("files", count),
	)
	return nil
}
