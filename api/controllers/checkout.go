package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/api/middleware"
	"github.com/procifarmed/storefront-api/api/responses"
	"github.com/procifarmed/storefront-api/api/validators"
	"github.com/procifarmed/storefront-api/internal/checkout"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

const idempotencyHeader = "Idempotency-Key"

type checkoutRequest struct {
	AddressID uuid.UUID `json:"address_id"`
}

// Checkout places the order for the request's cart. An empty address id is
// passed through so the service reports the pt-BR selection message.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("checkout service"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
			UserID:         userID,
			Email:          middleware.EmailFromContext(r.Context()),
			CartToken:      middleware.CartTokenFromContext(r.Context()),
			AddressID:      payload.AddressID,
			IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyHeader)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.Replayed {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
