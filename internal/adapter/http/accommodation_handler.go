package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/usecase"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// AccommodationHandler serves the accommodation listing endpoints.
type AccommodationHandler struct {
	accommodations *usecase.AccommodationUsecase
	logger         *logger.Logger
}

func NewAccommodationHandler(accommodations *usecase.AccommodationUsecase, log *logger.Logger) *AccommodationHandler {
	return &AccommodationHandler{accommodations: accommodations, logger: log.Named("AccommodationHandler")}
}

type accommodationPayload struct {
	Title                  string   `json:"title"`
	Address                string   `json:"address"`
	Price                  float64  `json:"price"`
	DistanceFromUniversity float64  `json:"distanceFromUniversity"`
	Amenities              []string `json:"amenities"`
	ContactEmail           string   `json:"contactEmail"`
	ContactPhone           string   `json:"contactPhone"`
}

type accommodationResponse struct {
	ID                     int64        `json:"id"`
	Title                  string       `json:"title"`
	Address                string       `json:"address"`
	Price                  float64      `json:"price"`
	DistanceFromUniversity float64      `json:"distanceFromUniversity"`
	Amenities              []string     `json:"amenities"`
	Photos                 []string     `json:"photos"`
	ContactEmail           string       `json:"contactEmail"`
	ContactPhone           string       `json:"contactPhone"`
	Broker                 userResponse `json:"broker"`
	CreatedAt              time.Time    `json:"createdAt"`
}

func toAccommodationResponse(acc *domain.Accommodation) accommodationResponse {
	resp := accommodationResponse{
		ID:                     acc.ID,
		Title:                  acc.Title,
		Address:                acc.Address,
		Price:                  acc.Price,
		DistanceFromUniversity: acc.DistanceFromUniversity,
		Amenities:              acc.Amenities,
		Photos:                 acc.Photos,
		ContactEmail:           acc.ContactEmail,
		ContactPhone:           acc.ContactPhone,
		CreatedAt:              acc.CreatedAt,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if resp.Photos == nil {
		resp.Photos = []string{}
	}
	if acc.Broker != nil {
		resp.Broker = toUserResponse(acc.Broker)
	}
	return resp
}

func toAccommodationResponses(accs []*domain.Accommodation) []accommodationResponse {
	out := make([]accommodationResponse, 0, len(accs))
	for _, acc := range accs {
		out = append(out, toAccommodationResponse(acc))
	}
	return out
}

// Create handles POST /api/accommodations. The request is multipart form
// data: an "accommodation" part holding the listing JSON and zero or more
// "photos" file parts. The broker identity comes from the verified token.
func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid multipart form: %v", domain.ErrInvalidInput, err))
		return
	}

	var payload accommodationPayload
	if err := json.Unmarshal([]byte(r.FormValue("accommodation")), &payload); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid accommodation JSON", domain.ErrInvalidInput))
		return
	}

	var photos []domain.File
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["photos"] {
			file, err := header.Open()
			if err != nil {
				respondError(w, h.logger, fmt.Errorf("%w: unreadable photo %q", domain.ErrInvalidInput, header.Filename))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondError(w, h.logger, fmt.Errorf("%w: unreadable photo %q", domain.ErrInvalidInput, header.Filename))
				return
			}
			photos = append(photos, domain.File{Name: header.Filename, Data: data})
		}
	}

	draft := domain.AccommodationDraft{
		Title:                  payload.Title,
		Address:                payload.Address,
		Price:                  payload.Price,
		DistanceFromUniversity: payload.DistanceFromUniversity,
		Amenities:              payload.Amenities,
		ContactEmail:           payload.ContactEmail,
		ContactPhone:           payload.ContactPhone,
	}

	created, err := h.accommodations.CreateAccommodation(r.Context(), username, draft, photos)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAccommodationResponse(created))
}

// GetAll handles GET /api/accommodations.
func (h *AccommodationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	accs, err := h.accommodations.GetAll(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccommodationResponses(accs))
}

// GetByID handles GET /api/accommodations/{id}.
func (h *AccommodationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	acc, err := h.accommodations.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccommodationResponse(acc))
}

// GetByBroker handles GET /api/accommodations/broker/{brokerId}.
func (h *AccommodationHandler) GetByBroker(w http.ResponseWriter, r *http.Request) {
	brokerID, err := parseIDParam(r, "brokerId")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	accs, err := h.accommodations.GetByBroker(r.Context(), brokerID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccommodationResponses(accs))
}

// Delete handles DELETE /api/accommodations/{id}.
func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.accommodations.DeleteAccommodation(r.Context(), id, username); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}
