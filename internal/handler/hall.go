package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/repository"
)

// HallHandler groups repositories for browsing and managing halls.
// Listing, detail and availability endpoints are public; create, update
// and delete are admin-only and gated by middleware.
type HallHandler struct {
	HallRepo    *repository.HallRepo
	BookingRepo *repository.BookingRepo
}

// NewHallHandler constructs a HallHandler.  All dependencies must be
// non-nil.
func NewHallHandler(hallRepo *repository.HallRepo, bookingRepo *repository.BookingRepo) *HallHandler {
	if hallRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewHallHandler")
	}
	return &HallHandler{HallRepo: hallRepo, BookingRepo: bookingRepo}
}

// hallResponse is the JSON shape for a hall.  The availability field is
// the admin-controlled global switch, independent of date-based booking.
type hallResponse struct {
	ID               uint64   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Capacity         uint32   `json:"capacity"`
	PricePerDayCents uint32   `json:"pricePerDayCents"`
	Location         string   `json:"location"`
	Amenities        []string `json:"amenities"`
	Images           []string `json:"images"`
	Availability     bool     `json:"availability"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

func toHallResponse(h *repository.HallRecord) hallResponse {
	return hallResponse{
		ID:               h.ID,
		Name:             h.Name,
		Description:      h.Description,
		Capacity:         h.Capacity,
		PricePerDayCents: h.PricePerDayCents,
		Location:         h.Location,
		Amenities:        h.Amenities,
		Images:           h.Images,
		Availability:     h.IsAvailable,
		CreatedAt:        h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ListHalls handles GET /halls.  It returns every hall for public
// browsing; no authentication is required.
func (h *HallHandler) ListHalls(c echo.Context) error {
	halls, err := h.HallRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]hallResponse, 0, len(halls))
	for i := range halls {
		out = append(out, toHallResponse(&halls[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": out, "count": len(out)})
}

// GetHall handles GET /halls/:id.
func (h *HallHandler) GetHall(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	hall, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall": toHallResponse(hall)})
}

// CheckAvailability handles POST /halls/check-availability.  The request
// body carries {hallId, startDate, endDate}; the response is
// {isAvailable}.  A hall with zero non-cancelled bookings is always
// available.  The check is read-only and applies the inclusive overlap
// predicate, so adjacency counts as a conflict.
func (h *HallHandler) CheckAvailability(c echo.Context) error {
	var body struct {
		HallID    uint64 `json:"hallId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hallId is required"})
	}
	start, err := parseDate(body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
	}
	end, err := parseDate(body.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endDate"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must not be before startDate"})
	}
	overlap, err := h.BookingRepo.ExistsOverlap(c.Request().Context(), body.HallID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isAvailable": !overlap})
}

// CreateHall handles POST /halls (admin only).
func (h *HallHandler) CreateHall(c echo.Context) error {
	var body struct {
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		Capacity         uint32   `json:"capacity"`
		PricePerDayCents uint32   `json:"pricePerDayCents"`
		Location         string   `json:"location"`
		Amenities        []string `json:"amenities"`
		Images           []string `json:"images"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Location = strings.TrimSpace(body.Location)
	if body.Name == "" || body.Location == "" || body.Capacity == 0 || body.PricePerDayCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name, location, capacity and pricePerDayCents are required and must be greater than zero",
		})
	}
	hall := &repository.HallRecord{
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         body.Capacity,
		PricePerDayCents: body.PricePerDayCents,
		Location:         body.Location,
		Amenities:        body.Amenities,
		Images:           body.Images,
	}
	if err := h.HallRepo.Create(c.Request().Context(), hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"hall": toHallResponse(hall)})
}

// UpdateHall handles PATCH /halls/:id (admin only).  Absent fields are
// left unchanged.
func (h *HallHandler) UpdateHall(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var body struct {
		Name             *string   `json:"name"`
		Description      *string   `json:"description"`
		Capacity         *uint32   `json:"capacity"`
		PricePerDayCents *uint32   `json:"pricePerDayCents"`
		Location         *string   `json:"location"`
		Amenities        *[]string `json:"amenities"`
		Images           *[]string `json:"images"`
		Availability     *bool     `json:"availability"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
	}
	if body.Capacity != nil && *body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
	}
	if body.PricePerDayCents != nil && *body.PricePerDayCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pricePerDayCents must be greater than zero"})
	}
	hall, err := h.HallRepo.Update(c.Request().Context(), id, repository.HallUpdate{
		Name:             body.Name,
		Description:      body.Description,
		Capacity:         body.Capacity,
		PricePerDayCents: body.PricePerDayCents,
		Location:         body.Location,
		Amenities:        body.Amenities,
		Images:           body.Images,
		IsAvailable:      body.Availability,
	})
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hall"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall": toHallResponse(hall)})
}

// DeleteHall handles DELETE /halls/:id (admin only).  Deletion is refused
// while non-cancelled bookings reference the hall.
func (h *HallHandler) DeleteHall(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := h.HallRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete hall"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Hall removed"})
}
