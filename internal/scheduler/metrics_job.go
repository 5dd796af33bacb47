// metrics_job.go
//
// Room scanning and affiliate product recommendation data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of roomscan-api.
// roomscan-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// roomscan-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with roomscan-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// jobTimeout bounds one run of the metrics snapshot
const jobTimeout = 2 * time.Minute

// MetricsJob periodically snapshots usage counters into app_metrics
type MetricsJob struct {
	cron      *cron.Cron
	db        *gorm.DB
	config    *config.Config
	log       *zap.Logger
	isRunning bool
}

// NewMetricsJob creates a metrics job scheduled by cfg.MetricsCron
func NewMetricsJob(db *gorm.DB, cfg *config.Config, log *zap.Logger) *MetricsJob {
	return &MetricsJob{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		db:     db,
		config: cfg,
		log:    log.Named("scheduler"),
	}
}

// Start schedules the job. An empty METRICS_CRON disables it.
func (j *MetricsJob) Start() error {
	if j.config.MetricsCron == "" {
		j.log.Info("metrics job disabled")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.MetricsCron, j.run)
	if err != nil {
		return fmt.Errorf("invalid METRICS_CRON %q: %w", j.config.MetricsCron, err)
	}

	j.cron.Start()
	j.isRunning = true
	j.log.Info("metrics job started", zap.String("cron", j.config.MetricsCron))

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (j *MetricsJob) Stop() {
	if j.isRunning {
		<-j.cron.Stop().Done()
		j.isRunning = false
		j.log.Info("metrics job stopped")
	}
}

func (j *MetricsJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	rows, err := RecordDailyMetrics(ctx, j.db, time.Now().UTC())
	if err != nil {
		j.log.Error("metrics snapshot failed", zap.Error(err))
		return
	}
	j.log.Info("metrics snapshot recorded", zap.Int("rows", len(rows)))
}

// RecordDailyMetrics writes one app_metrics row per usage counter, in one transaction.
// The 24h counters cover the day before now.
func RecordDailyMetrics(ctx context.Context, db *gorm.DB, now time.Time) ([]models.AppMetrics, error) {
	since := now.Add(-24 * time.Hour)

	meta, err := models.NewJSON(map[string]string{
		"source": "scheduler",
		"since":  since.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	counters := []struct {
		name  string
		model interface{}
		where string
		arg   interface{}
	}{
		{"rooms_total", &models.Room{}, "", nil},
		{"room_scans_24h", &models.RoomScan{}, "recorded_at >= ?", since},
		{"affiliate_clicks_24h", &models.AffiliateClick{}, "clicked_at >= ?", since},
		{"active_products", &models.Product{}, "is_active = ?", true},
	}

	rows := make([]models.AppMetrics, 0, len(counters))
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range counters {
			var count int64
			q := tx.Model(c.model)
			if c.where != "" {
				q = q.Where(c.where, c.arg)
			}
			if err := q.Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count %s: %w", c.name, err)
			}
			rows = append(rows, models.AppMetrics{
				MetricName:  c.name,
				MetricValue: float64(count),
				Metadata:    meta,
				Timestamp:   now,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}
