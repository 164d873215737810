package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"promo-engine/internal/cache"
	"promo-engine/internal/config"
	"promo-engine/internal/promo"
)

const queryTimeout = 5 * time.Second

// Store is a promo.StorageService backed by Postgres. Reads come from an
// atomic full-table snapshot so the single-threaded core never waits on the
// database; writes go through to the table and refresh the snapshot. Other
// processes writing the table are picked up via LISTEN/NOTIFY (see the
// listener package) calling Refresh.
type Store struct {
	pool *pgxpool.Pool
	ctx  context.Context
	snap cache.Snapshot[map[promo.FeatureID]promo.PromoData]
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	s := &Store{pool: pool, ctx: ctx}
	if err := s.Refresh(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Refresh reloads the whole promo_history table into the snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT feature, is_dismissed, last_dismissed_by, show_count,
		       snooze_count, last_show_time, last_snooze_time, shown_for_keys
		FROM promo_history
	`)
	if err != nil {
		return fmt.Errorf("query promo history: %w", err)
	}
	defer rows.Close()

	data := map[promo.FeatureID]promo.PromoData{}
	for rows.Next() {
		var (
			feature         string
			d               promo.PromoData
			lastDismissedBy int
			lastShow        *time.Time
			lastSnooze      *time.Time
		)
		if err := rows.Scan(&feature, &d.IsDismissed, &lastDismissedBy,
			&d.ShowCount, &d.SnoozeCount, &lastShow, &lastSnooze,
			&d.ShownForKeys); err != nil {
			return fmt.Errorf("scan promo history row: %w", err)
		}
		d.LastDismissedBy = promo.ClosedReason(lastDismissedBy)
		if lastShow != nil {
			d.LastShowTime = *lastShow
		}
		if lastSnooze != nil {
			d.LastSnoozeTime = *lastSnooze
		}
		data[promo.FeatureID(feature)] = d
	}
	if rows.Err() != nil {
		return fmt.Errorf("read promo history: %w", rows.Err())
	}

	s.snap.Store(data)
	return nil
}

func (s *Store) ReadPromoData(feature promo.FeatureID) (promo.PromoData, bool) {
	data, ok := s.snap.Load()
	if !ok {
		return promo.PromoData{}, false
	}
	d, ok := data[feature]
	return d, ok
}

func (s *Store) SavePromoData(feature promo.FeatureID, d promo.PromoData) error {
	ctx, cancel := context.WithTimeout(s.ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO promo_history
			(feature, is_dismissed, last_dismissed_by, show_count,
			 snooze_count, last_show_time, last_snooze_time, shown_for_keys)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (feature) DO UPDATE SET
			is_dismissed = EXCLUDED.is_dismissed,
			last_dismissed_by = EXCLUDED.last_dismissed_by,
			show_count = EXCLUDED.show_count,
			snooze_count = EXCLUDED.snooze_count,
			last_show_time = EXCLUDED.last_show_time,
			last_snooze_time = EXCLUDED.last_snooze_time,
			shown_for_keys = EXCLUDED.shown_for_keys
	`, string(feature), d.IsDismissed, int(d.LastDismissedBy), d.ShowCount,
		d.SnoozeCount, nullableTime(d.LastShowTime), nullableTime(d.LastSnoozeTime),
		d.ShownForKeys)
	if err != nil {
		return fmt.Errorf("upsert promo history: %w", err)
	}

	// Write-through: patch the snapshot without a full reload.
	s.patch(feature, &d)
	return nil
}

func (s *Store) ResetPromoData(feature promo.FeatureID) error {
	ctx, cancel := context.WithTimeout(s.ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `DELETE FROM promo_history WHERE feature = $1`, string(feature))
	if err != nil {
		return fmt.Errorf("delete promo history: %w", err)
	}
	s.patch(feature, nil)
	return nil
}

func (s *Store) patch(feature promo.FeatureID, d *promo.PromoData) {
	old, _ := s.snap.Load()
	next := make(map[promo.FeatureID]promo.PromoData, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	if d == nil {
		delete(next, feature)
	} else {
		next[feature] = *d
	}
	s.snap.Store(next)
}

func (s *Store) PgxPool() *pgxpool.Pool { return s.pool }

// ListenChannel is the NOTIFY channel peers signal history writes on.
func (s *Store) ListenChannel() string { return "promo_history_change" }

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
