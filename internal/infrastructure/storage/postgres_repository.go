package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"SeoForge/internal/domain"
	"SeoForge/internal/ports"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists tenants, products, articles and news in Postgres.
type PostgresRepository struct {
	db *sqlx.DB
}

var (
	_ ports.BlogStore    = (*PostgresRepository)(nil)
	_ ports.ProductStore = (*PostgresRepository)(nil)
	_ ports.ArticleStore = (*PostgresRepository)(nil)
	_ ports.NewsStore    = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sqlx.DB implementation.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query sq.SelectBuilder) (bool, error) {
	stmt, args, err := query.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var found bool
	if err := r.db.GetContext(ctx, &found, stmt, args...); err != nil {
		return false, mapError(err)
	}
	return found, nil
}

func (r *PostgresRepository) deleteByID(ctx context.Context, table, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	stmt, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build %s delete: %w", table, err)
	}

	result, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}
	return nil
}

// setIf adds column = *value to the update when value is set.
func setIf[T any](update sq.UpdateBuilder, column string, value *T) sq.UpdateBuilder {
	if value == nil {
		return update
	}
	return update.Set(column, *value)
}

// mapError translates driver errors into domain sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrAlreadyExists, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
