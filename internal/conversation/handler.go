package conversation

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ProcessReservation handles POST /process_reservation. Failures never
// surface as HTTP errors; the client gets the apology payload instead.
func (h *Handler) ProcessReservation(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Error("failed to decode reservation request", "error", err)
		h.writeJSON(w, http.StatusOK, ErrorResponse())
		return
	}
	req.OwnerID = middleware.OwnerFromContext(r.Context())
	req.Channel = ChannelHTTP

	resp, err := h.service.ProcessMessage(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to process reservation message", "error", err, "owner_id", req.OwnerID)
		h.writeJSON(w, http.StatusOK, ErrorResponse())
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetReservations handles GET /get_reservations.
func (h *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	h.writeJSON(w, http.StatusOK, h.service.ListReservations(r.Context(), owner))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
