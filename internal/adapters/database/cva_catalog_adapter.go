package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// CvaCatalogAdapter exposes the synced distributor catalog (cva_products) as
// a CatalogSource.
type CvaCatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCvaCatalogAdapter creates a catalog source over the synced catalog table
func NewCvaCatalogAdapter(client *postgres.Client) repositories.CatalogSource {
	return &CvaCatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Name identifies the source
func (a *CvaCatalogAdapter) Name() string {
	return "cva"
}

// SearchAllTokens returns products matching every token as a substring of
// description, group, subgroup or brand.
func (a *CvaCatalogAdapter) SearchAllTokens(ctx context.Context, tokens []string, limit int) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns("subgroup")...).From("cva_products")

	for _, token := range tokens {
		pattern := "%" + token + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(description)").Like(pattern),
			goqu.L("LOWER(group_name)").Like(pattern),
			goqu.L("LOWER(subgroup)").Like(pattern),
			goqu.L("LOWER(brand)").Like(pattern),
		))
	}

	query, args, err := ds.Limit(uint(limit)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build catalog query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search cva catalog", err)
	}
	defer rows.Close()

	return scanProducts(rows, a.Name())
}

// DistinctGroups lists the distinct non-empty group names
func (a *CvaCatalogAdapter) DistinctGroups(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "group_name")
}

// DistinctSubgroups lists the distinct non-empty subgroup names
func (a *CvaCatalogAdapter) DistinctSubgroups(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "subgroup")
}

// DistinctBrands lists the distinct non-empty brand names
func (a *CvaCatalogAdapter) DistinctBrands(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "brand")
}

// HasProducts reports whether the synced catalog holds any rows
func (a *CvaCatalogAdapter) HasProducts(ctx context.Context) (bool, error) {
	var exists bool
	err := a.client.DB().QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cva_products)`).Scan(&exists)
	if err != nil {
		return false, apperrors.NewInternalError("failed to check cva catalog", err)
	}
	return exists, nil
}

func (a *CvaCatalogAdapter) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query, args, err := a.db.Select(column).Distinct().
		From("cva_products").
		Where(
			goqu.C(column).IsNotNull(),
			goqu.C(column).Neq(""),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build distinct query", err)
	}

	return queryStrings(ctx, a.client.DB(), query, args)
}

// productColumns returns the select list shared by the catalog sources.
// subgroupColumn is "" for sources without one; a NULL literal keeps the
// scan shape identical.
func productColumns(subgroupColumn string) []interface{} {
	subgroup := goqu.L("NULL").As("subgroup")
	if subgroupColumn != "" {
		subgroup = goqu.C(subgroupColumn).As("subgroup")
	}
	return []interface{}{
		"product_key", "manufacturer_code", "description", "group_name",
		subgroup,
		"brand", "price", "currency", "image", "images",
		"available", "available_cd", "warranty",
	}
}

func scanProducts(rows *sql.Rows, source string) ([]*entities.Product, error) {
	var products []*entities.Product
	for rows.Next() {
		p := &entities.Product{Source: source}
		var manufacturerCode, subgroup, currency, image, warranty sql.NullString

		err := rows.Scan(
			&p.Key,
			&manufacturerCode,
			&p.Description,
			&p.Group,
			&subgroup,
			&p.Brand,
			&p.Price,
			&currency,
			&image,
			pq.Array(&p.Images),
			&p.Available,
			&p.AvailableCD,
			&warranty,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}

		p.ManufacturerCode = manufacturerCode.String
		p.Subgroup = subgroup.String
		p.Currency = currency.String
		p.Image = image.String
		p.Warranty = warranty.String

		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read products", err)
	}

	return products, nil
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args []interface{}) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query distinct values", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.NewInternalError("failed to scan distinct value", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read distinct values", err)
	}

	return values, nil
}
