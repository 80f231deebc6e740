package controllers

import (
	"net/http"

	"github.com/freshboxhq/freshbox-backend/api/responses"
	batchsvc "github.com/freshboxhq/freshbox-backend/internal/batches"
	"github.com/freshboxhq/freshbox-backend/pkg/db/models"
	pkgerrors "github.com/freshboxhq/freshbox-backend/pkg/errors"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
)

// TodayBatch returns today's delivery batch, or null when none is published.
func TodayBatch(svc batchsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}

		batch, err := svc.Today(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if batch == nil {
			responses.WriteSuccess(w, nil)
			return
		}

		responses.WriteSuccess(w, newBatchResponse(batch))
	}
}

type batchResponse struct {
	ID           int64   `json:"id"`
	DeliveryDate string  `json:"delivery_date"`
	Location     string  `json:"location"`
	InstagramURL *string `json:"instagram_url,omitempty"`
}

func newBatchResponse(batch *models.DeliveryBatch) batchResponse {
	return batchResponse{
		ID:           batch.ID,
		DeliveryDate: batch.DeliveryDate.Format("2006-01-02"),
		Location:     batch.Location,
		InstagramURL: batch.InstagramURL,
	}
}
