package repository

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/logger"
	"slices"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrRequiredFilter = errors.New("required filter")
	// ErrDuplicate wraps unique constraint violations so callers can answer them as client errors.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrReference wraps foreign key violations.
	ErrReference = errors.New("referenced entry does not exist")
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) selector() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return c.table + "." + c.name + " AS " + c.alias
	default:
		return c.table + "." + c.name
	}
}

// Repository implements the common statements for an entity mapped through `db` tags.
// Every method runs on the transaction bound to ctx when there is one.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	insertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	repo := Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		insertColumns: insertColumns,
	}

	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		repo.join = joiner.GetJoinQuery()
	}

	return repo
}

// statement opens the span for one query and records the query on it.
func (repo *Repository[T]) statement(ctx context.Context, method, query string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		constant.OtelRepositoryScopeName+"."+repo.entity+"."+method)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return ctx, scope
}

// fail logs and traces err, then wraps it with the action that failed.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeUniqueViolation:
			err = fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case constant.PqErrorCodeFkViolation:
			err = fmt.Errorf("%w: %s", ErrReference, pqErr.Constraint)
		}
	}

	return fmt.Errorf("failed to %s %s: %w", action, repo.entity, err)
}

func (repo *Repository[T]) exec(ctx context.Context, method, action, query string, arg any) error {
	ctx, scope := repo.statement(ctx, method, query)
	defer scope.End()

	if _, err := repo.db.Writer(ctx).NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	placeholders := make([]string, len(repo.insertColumns))
	for i, col := range repo.insertColumns {
		placeholders[i] = ":" + col
	}

	query := "INSERT INTO " + repo.table + " (" + strings.Join(repo.insertColumns, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"

	return repo.exec(ctx, "Insert", "insert", query, model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	query := "SELECT EXISTS(SELECT 1 FROM " + repo.table + where + ")"

	ctx, scope := repo.statement(ctx, "Exist", query)
	defer scope.End()

	var exist bool
	if err := repo.namedGet(ctx, query, &exist, args); err != nil {
		return false, repo.fail(scope, "check existence of", err)
	}

	return exist, nil
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	where, args := repo.BuildWhereClause(filter)
	query := "SELECT " + repo.getSelectQuery(columns...) + " FROM " + repo.table + repo.joinClause() + where

	ctx, scope := repo.statement(ctx, "Get", query)
	defer scope.End()

	var model T

	err := repo.namedGet(ctx, query, &model, args)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model, nil
	case err != nil:
		return model, repo.fail(scope, "get", err)
	}

	return model, nil
}

// GetAll lists matching rows. Zero Page and Limit disable pagination; SortBy must name a mapped column.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	var query strings.Builder

	query.WriteString("SELECT " + repo.getSelectQuery(columns...) + " FROM " + repo.table + repo.joinClause() + where)

	if params.SortBy != "" && params.SortDir != "" && repo.hasColumn(params.SortBy) {
		fmt.Fprintf(&query, " ORDER BY %s.%s %s", repo.table, params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit

		query.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = params.Offset()

			query.WriteString(" OFFSET :offset")
		}
	}

	ctx, scope := repo.statement(ctx, "GetAll", query.String())
	defer scope.End()

	models := []T{}

	prepare, err := repo.db.Reader(ctx).PrepareNamedContext(ctx, query.String())
	if err != nil {
		return models, repo.fail(scope, "prepare list of", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "list", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s%s", repo.table, repo.primaryColumn, repo.table, repo.joinClause(), where)

	ctx, scope := repo.statement(ctx, "Count", query)
	defer scope.End()

	var count int
	if err := repo.namedGet(ctx, query, &count, args); err != nil {
		return 0, repo.fail(scope, "count", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	return repo.exec(ctx, "Delete", "delete", "DELETE FROM "+repo.table+where, args)
}

// Update sets the given columns on every matching row. Columns are written in sorted order.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, col+" = :"+col)
	}

	maps.Copy(args, mod)

	return repo.exec(ctx, "Update", "update", "UPDATE "+repo.table+" SET "+strings.Join(assignments, ", ")+where, args)
}

func (repo *Repository[T]) namedGet(ctx context.Context, query string, dest any, args map[string]any) error {
	prepare, err := repo.db.Reader(ctx).PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepare.Close()

	return prepare.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) joinClause() string {
	if repo.join == "" {
		return ""
	}

	return " " + repo.join
}

func (repo *Repository[T]) hasColumn(name string) bool {
	return slices.ContainsFunc(repo.columns, func(col column) bool {
		return col.table == repo.table && col.name == name
	})
}

func (repo *Repository[T]) getSelectQuery(only ...string) string {
	selectors := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) == 0 || slices.Contains(only, col.name) {
			selectors = append(selectors, col.selector())
		}
	}

	return strings.Join(selectors, ", ")
}

// BuildWhereClause renders filter with a leading space, or nothing for an empty filter.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

// getColumns walks the `db` tags of t, descending into embedded structs.
// A `table` tag maps the field to a joined table and keeps it out of inserts; `column` renames it there.
func getColumns(table string, t reflect.Type) (columns []column, insertColumns []string) {
	for field := range slices.Values(reflect.VisibleFields(t)) {
		if field.Anonymous {
			continue
		}

		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		owner := cmp.Or(field.Tag.Get("table"), table)
		if owner == table {
			insertColumns = append(insertColumns, name)
		}

		if alias := field.Tag.Get("column"); alias != "" {
			columns = append(columns, column{name: alias, table: owner, alias: name})
		} else {
			columns = append(columns, column{name: name, table: owner})
		}
	}

	return columns, insertColumns
}
