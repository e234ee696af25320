package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-rental-dashboard/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

var _ SnapshotStore = (*PostgresSnapshotRepository)(nil)

// ErrNoSnapshot is returned by Latest when nothing has been stored yet.
var ErrNoSnapshot = errors.New("no dataset snapshot stored")

// PgxIface is the subset of pgxpool.Pool used by the snapshot repository.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var listingColumns = []string{
	"snapshot_id", "position", "id", "name", "host_id", "host_name", "neighbourhood_group",
	"neighbourhood", "latitude", "longitude", "room_type", "price", "minimum_nights",
	"number_of_reviews", "availability_365",
}

var boundaryColumns = []string{"snapshot_id", "position", "neighbourhood", "neighbourhood_group", "geometry"}

// PostgresSnapshotRepository stores datasets in the snapshot tables.
type PostgresSnapshotRepository struct {
	logger *slog.Logger
	pgpool PgxIface
}

func NewPostgresSnapshotRepository(pgpool PgxIface, logger *slog.Logger) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresSnapshotRepository) Save(ctx context.Context, ds *types.Dataset) (uuid.UUID, error) {
	ctx, span := otel.Tracer("SnapshotRepo").Start(ctx, "Save", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "dataset_snapshots"),
		attribute.Int("dataset.listings", len(ds.Listings)),
	))
	defer span.End()
	start := time.Now()

	l := r.logger.With(slog.String("method", "Save"), slog.String("snapshotID", ds.SnapshotID.String()))

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("failed to start transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO dataset_snapshots (id, city, source_url, fetched_at, columns)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err = tx.Exec(ctx, query, ds.SnapshotID, ds.City, ds.SourceURL, ds.FetchedAt, ds.Columns); err != nil {
		return r.fail(ctx, span, fmt.Errorf("failed to insert snapshot: %w", err))
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"snapshot_listings"}, listingColumns,
		pgx.CopyFromSlice(len(ds.Listings), func(i int) ([]any, error) {
			li := ds.Listings[i]
			return []any{
				ds.SnapshotID, i, li.ID, li.Name, li.HostID, li.HostName, li.NeighbourhoodGroup,
				li.Neighbourhood, li.Latitude, li.Longitude, li.RoomType, li.Price, li.MinimumNights,
				li.NumberOfReviews, li.Availability365,
			}, nil
		}))
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("failed to copy listings: %w", err))
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"snapshot_boundaries"}, boundaryColumns,
		pgx.CopyFromSlice(len(ds.Boundaries), func(i int) ([]any, error) {
			b := ds.Boundaries[i]
			geometry, err := MarshalGeometry(b.Geometry)
			if err != nil {
				return nil, fmt.Errorf("boundary %q: %w", b.Name, err)
			}
			return []any{ds.SnapshotID, i, b.Name, b.Group, geometry}, nil
		}))
	if err != nil {
		return r.fail(ctx, span, fmt.Errorf("failed to copy boundaries: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return r.fail(ctx, span, fmt.Errorf("failed to commit transaction: %w", err))
	}

	metrics.Get().DbQueryDuration(ctx, "save_snapshot", time.Since(start))
	l.InfoContext(ctx, "Dataset snapshot stored", slog.Int("listings", len(ds.Listings)))
	span.SetStatus(codes.Ok, "snapshot stored")
	return ds.SnapshotID, nil
}

func (r *PostgresSnapshotRepository) fail(ctx context.Context, span trace.Span, err error) (uuid.UUID, error) {
	r.logger.ErrorContext(ctx, "Snapshot repository error", slog.Any("error", err))
	metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
	span.RecordError(err)
	span.SetStatus(codes.Error, "snapshot save failed")
	return uuid.Nil, err
}

func (r *PostgresSnapshotRepository) Latest(ctx context.Context) (*types.Dataset, error) {
	ctx, span := otel.Tracer("SnapshotRepo").Start(ctx, "Latest", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "dataset_snapshots"),
	))
	defer span.End()
	start := time.Now()

	ds := &types.Dataset{}
	query := `
		SELECT id, city, source_url, fetched_at, columns
		FROM dataset_snapshots
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	err := r.pgpool.QueryRow(ctx, query).Scan(&ds.SnapshotID, &ds.City, &ds.SourceURL, &ds.FetchedAt, &ds.Columns)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}

	if ds.Listings, err = r.listings(ctx, ds.SnapshotID); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if ds.Boundaries, err = r.boundaries(ctx, ds.SnapshotID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.Get().DbQueryDuration(ctx, "latest_snapshot", time.Since(start))
	span.SetStatus(codes.Ok, "snapshot loaded")
	return ds, nil
}

func (r *PostgresSnapshotRepository) listings(ctx context.Context, snapshotID uuid.UUID) ([]types.Listing, error) {
	query := `
		SELECT id, name, host_id, host_name, neighbourhood_group, neighbourhood,
		       latitude, longitude, room_type, price, minimum_nights,
		       number_of_reviews, availability_365
		FROM snapshot_listings
		WHERE snapshot_id = $1
		ORDER BY position
	`
	rows, err := r.pgpool.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot listings: %w", err)
	}
	defer rows.Close()

	var listings []types.Listing
	for rows.Next() {
		var li types.Listing
		if err := rows.Scan(
			&li.ID, &li.Name, &li.HostID, &li.HostName, &li.NeighbourhoodGroup, &li.Neighbourhood,
			&li.Latitude, &li.Longitude, &li.RoomType, &li.Price, &li.MinimumNights,
			&li.NumberOfReviews, &li.Availability365,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot listing: %w", err)
		}
		listings = append(listings, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot listings: %w", err)
	}
	return listings, nil
}

func (r *PostgresSnapshotRepository) boundaries(ctx context.Context, snapshotID uuid.UUID) ([]types.NeighbourhoodBoundary, error) {
	query := `
		SELECT neighbourhood, neighbourhood_group, geometry
		FROM snapshot_boundaries
		WHERE snapshot_id = $1
		ORDER BY position
	`
	rows, err := r.pgpool.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot boundaries: %w", err)
	}
	defer rows.Close()

	var boundaries []types.NeighbourhoodBoundary
	for rows.Next() {
		var (
			b        types.NeighbourhoodBoundary
			geometry []byte
		)
		if err := rows.Scan(&b.Name, &b.Group, &geometry); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot boundary: %w", err)
		}
		if b.Geometry, err = UnmarshalGeometry(geometry); err != nil {
			return nil, fmt.Errorf("boundary %q: invalid geometry: %w", b.Name, err)
		}
		boundaries = append(boundaries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot boundaries: %w", err)
	}
	return boundaries, nil
}
