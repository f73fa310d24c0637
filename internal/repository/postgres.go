package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/mercil/npa-search/internal/model"
)

// listingColumns is the shared read column list for the assets table.
const listingColumns = `id, asset_code, name, type_name, price, location, description, created_at, updated_at`

// PostgresRepository is the vector/listing store. Vector search uses the
// pgvector cosine distance operator; structured filters are pushed into the
// WHERE clause so only matching listings come back.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SearchByVector performs cosine nearest-neighbor search over listing
// embeddings restricted by the FilterSet. Results come back ordered by
// similarity descending, ties broken by id ascending.
func (r *PostgresRepository) SearchByVector(ctx context.Context, queryVec []float32, fs *model.FilterSet, limit int) ([]model.Candidate, error) {
	whereClause, args := buildFilterClause(fs, 2)

	query := fmt.Sprintf(`
		SELECT %s,
			1 - (embedding <=> $1) AS similarity
		FROM assets
		WHERE embedding IS NOT NULL AND %s
		ORDER BY similarity DESC, id ASC
		LIMIT $%d
	`, listingColumns, whereClause, len(args)+2)

	allArgs := append([]interface{}{pgvector.NewVector(queryVec)}, args...)
	allArgs = append(allArgs, limit)

	var candidates []model.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query, allArgs...); err != nil {
		return nil, fmt.Errorf("%w: vector search failed: %v", model.ErrRetrievalUnavailable, err)
	}

	return candidates, nil
}

// SearchByFilters performs filter-only retrieval for the degraded mode.
// Similarity is 0 for every candidate; ordering falls to id ascending so
// repeated calls stay deterministic.
func (r *PostgresRepository) SearchByFilters(ctx context.Context, fs *model.FilterSet, limit int) ([]model.Candidate, error) {
	whereClause, args := buildFilterClause(fs, 1)

	query := fmt.Sprintf(`
		SELECT %s,
			0::float8 AS similarity
		FROM assets
		WHERE %s
		ORDER BY id ASC
		LIMIT $%d
	`, listingColumns, whereClause, len(args)+1)

	args = append(args, limit)

	var candidates []model.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("%w: filter search failed: %v", model.ErrRetrievalUnavailable, err)
	}

	return candidates, nil
}

// buildFilterClause renders the FilterSet into SQL conditions starting at
// the given placeholder index. fs.Location deliberately does not filter;
// it is a ranking signal only.
func buildFilterClause(fs *model.FilterSet, argIndex int) (string, []interface{}) {
	clauses := []string{"1=1"}
	args := []interface{}{}

	if fs != nil {
		if fs.TypeName != nil {
			clauses = append(clauses, fmt.Sprintf("type_name = $%d", argIndex))
			args = append(args, *fs.TypeName)
			argIndex++
		}
		if fs.MinPrice != nil {
			clauses = append(clauses, fmt.Sprintf("price >= $%d", argIndex))
			args = append(args, *fs.MinPrice)
			argIndex++
		}
		if fs.MaxPrice != nil {
			clauses = append(clauses, fmt.Sprintf("price <= $%d", argIndex))
			args = append(args, *fs.MaxPrice)
			argIndex++
		}
	}

	return strings.Join(clauses, " AND "), args
}

// GetListingByID retrieves a single listing. Returns (nil, nil) when the
// listing does not exist.
func (r *PostgresRepository) GetListingByID(ctx context.Context, id int64) (*model.Listing, error) {
	var listing model.Listing
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id = $1`, listingColumns)

	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get listing: %v", model.ErrRetrievalUnavailable, err)
	}
	return &listing, nil
}

// ListTypeNames returns the catalogue's known property type vocabulary.
func (r *PostgresRepository) ListTypeNames(ctx context.Context) ([]string, error) {
	var names []string
	query := `SELECT DISTINCT type_name FROM assets WHERE type_name IS NOT NULL ORDER BY type_name`
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list type names: %w", err)
	}
	return names, nil
}

// BatchUpdateEmbeddings updates listing vectors in one transaction.
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE assets SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		if _, err := stmt.ExecContext(ctx, vec, item.ListingID); err != nil {
			errs = append(errs, fmt.Sprintf("listing %d: %v", item.ListingID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// LogSearch records one search for offline tuning of the ranking weights.
func (r *PostgresRepository) LogSearch(ctx context.Context, query string, intent *model.Intent, resultCount int, listingIDs []int64, tookMs int) error {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}

	ids := make([]string, len(listingIDs))
	for i, id := range listingIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}

	insert := `
		INSERT INTO search_logs (query, intent, result_count, returned_listing_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, insert, query, intentJSON, resultCount, "{"+strings.Join(ids, ",")+"}", tookMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
