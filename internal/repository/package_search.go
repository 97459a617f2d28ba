package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/umrah-booking/internal/model"
)

// priceBands maps the catalog's price filter values to SQL conditions.
// Bounds are inclusive on both ends for the middle bands.
var priceBands = map[string]string{
	"under-100k": "price < 100000",
	"100k-200k":  "price BETWEEN 100000 AND 200000",
	"200k-350k":  "price BETWEEN 200000 AND 350000",
	"350k-plus":  "price >= 350000",
}

// SearchPublished lists published packages matching f, newest first, and
// returns the total match count for paging. Unknown filter values are ignored.
func (r *PackageRepo) SearchPublished(ctx context.Context, f model.PackageFilter) ([]model.Package, int64, error) {
	where := []string{"published = TRUE"}
	args := []any{}

	if cond, ok := priceBands[f.PriceRange]; ok {
		where = append(where, cond)
	}
	if f.Star == "5star" {
		where = append(where, "five_star = TRUE")
	}
	if f.Flight == "direct" {
		where = append(where, "direct_flight = TRUE")
	}
	if f.Featured {
		where = append(where, "featured = TRUE")
	}
	if f.Query != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Query)+"%")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM packages WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize
	dataSQL := "SELECT " + packageColumns + " FROM packages WHERE " + cond + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Package, 0, limit)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
