package controllers

import (
	"net/http"

	"github.com/akashch1512/crystalreadymades.com/api/responses"
	"github.com/akashch1512/crystalreadymades.com/api/validators"
	"github.com/akashch1512/crystalreadymades.com/internal/orders"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
)

// AdminOrderUpdateStatus advances an order through the fulfilment pipeline.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderID, err := parseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input orders.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(ctx, actor, orderID, input.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
