package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/api/responses"
	"github.com/procifarmed/storefront-api/api/validators"
	"github.com/procifarmed/storefront-api/internal/catalog"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

type catalogReader interface {
	ListActive(ctx context.Context, criteria catalog.Criteria) ([]catalog.ProductDTO, error)
	GetActive(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error)
	Facets() catalog.Facets
}

// CatalogList returns active products narrowed by the shop filters.
func CatalogList(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}

		criteria := catalog.NewCriteria(
			validators.QueryText(r, "q", 0),
			validators.QueryText(r, "category", 80),
			validators.QueryText(r, "purpose", 80),
			validators.QueryText(r, "min", 20),
			validators.QueryText(r, "max", 20),
		)

		products, err := svc.ListActive(r.Context(), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func CatalogProduct(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetActive(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogFacets(svc catalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Facets())
	}
}
