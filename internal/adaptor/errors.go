package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"quickshow/internal/data/repository"
	"quickshow/internal/dto/response"
	"quickshow/internal/usecase"
	"quickshow/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors onto the HTTP surface. Typed errors
// first, message matching as the fallback for validation wrapping.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &conflict):
		log.Warn(operation+" failed - seat conflict",
			zap.Strings("conflicting_seats", conflict.Seats),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Selected seats are no longer available",
			response.ConflictResponse{ConflictingSeats: conflict.Seats})

	case errors.Is(err, repository.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrPaymentUpstream):
		log.Error(operation+" failed - payment provider",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadGateway(w, "Payment provider unavailable, booking was not kept")

	case errors.Is(err, repository.ErrVersionConflict):
		// Guarded writes kept losing the race; the client should retry.
		log.Warn(operation+" failed - contention",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Seat map is busy, please retry")

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
