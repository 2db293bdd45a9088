package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/repositories"
	"github.com/tecnoclick/search-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tecnoclick/search-backend/pkg/errors"
)

// ManualCatalogAdapter exposes the manually maintained catalog
// (manual_products) as a CatalogSource. Soft-voided rows are never visible
// and the table has no subgroup column.
type ManualCatalogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewManualCatalogAdapter creates a catalog source over the manual table
func NewManualCatalogAdapter(client *postgres.Client) repositories.CatalogSource {
	return &ManualCatalogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Name identifies the source
func (a *ManualCatalogAdapter) Name() string {
	return "manual"
}

// SearchAllTokens returns non-voided products matching every token as a
// substring of description, group or brand.
func (a *ManualCatalogAdapter) SearchAllTokens(ctx context.Context, tokens []string, limit int) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns("")...).
		From("manual_products").
		Where(goqu.C("voided").IsFalse())

	for _, token := range tokens {
		pattern := "%" + token + "%"
		ds = ds.Where(goqu.Or(
			goqu.L("LOWER(description)").Like(pattern),
			goqu.L("LOWER(group_name)").Like(pattern),
			goqu.L("LOWER(brand)").Like(pattern),
		))
	}

	query, args, err := ds.Limit(uint(limit)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build catalog query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search manual catalog", err)
	}
	defer rows.Close()

	return scanProducts(rows, a.Name())
}

// DistinctGroups lists the distinct non-empty group names of visible rows
func (a *ManualCatalogAdapter) DistinctGroups(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "group_name")
}

// DistinctSubgroups is empty: the manual table has no subgroup column
func (a *ManualCatalogAdapter) DistinctSubgroups(ctx context.Context) ([]string, error) {
	return nil, nil
}

// DistinctBrands lists the distinct non-empty brand names of visible rows
func (a *ManualCatalogAdapter) DistinctBrands(ctx context.Context) ([]string, error) {
	return a.distinctColumn(ctx, "brand")
}

// HasProducts reports whether any non-voided rows exist
func (a *ManualCatalogAdapter) HasProducts(ctx context.Context) (bool, error) {
	var exists bool
	err := a.client.DB().QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM manual_products WHERE voided = false)`).Scan(&exists)
	if err != nil {
		return false, apperrors.NewInternalError("failed to check manual catalog", err)
	}
	return exists, nil
}

func (a *ManualCatalogAdapter) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query, args, err := a.db.Select(column).Distinct().
		From("manual_products").
		Where(
			goqu.C("voided").IsFalse(),
			goqu.C(column).IsNotNull(),
			goqu.C(column).Neq(""),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build distinct query", err)
	}

	return queryStrings(ctx, a.client.DB(), query, args)
}
