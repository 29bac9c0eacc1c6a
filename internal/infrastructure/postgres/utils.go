package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint devuelve el nombre del constraint violado, si el error viene de PostgreSQL.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// conds arma cláusulas WHERE con placeholders numerados. Cada "?" de expr se reemplaza por $n.
type conds struct {
	parts []string
	args  []any
}

func (c *conds) add(expr string, args ...any) {
	for _, a := range args {
		c.args = append(c.args, a)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(c.args)), 1)
	}
	c.parts = append(c.parts, expr)
}

func (c *conds) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 significa sin límite.
func (c *conds) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		c.args = append(c.args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(c.args))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(c.args))
	}
	return b.String()
}
