package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarian/internal/circulation"
)

type ReservationsController struct {
	service *circulation.Service
}

func NewReservationsController(service *circulation.Service) *ReservationsController {
	return &ReservationsController{
		service: service,
	}
}

// GetReservations lists all reservations, filtered by the memberId query
// parameter when given.
func (controller *ReservationsController) GetReservations(c *gin.Context) {
	memberID, ok := parseOptionalQueryID(c, "memberId")
	if !ok {
		return
	}

	reservations, err := controller.service.ListReservations(memberID)
	if err != nil {
		respondInternalError(c, err, "list reservations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "count": len(reservations)})
}

func (controller *ReservationsController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := controller.service.GetReservation(id)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "reservation")
			return
		}
		respondInternalError(c, err, "get reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (controller *ReservationsController) CreateReservation(c *gin.Context) {
	var input circulation.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid reservation payload: "+err.Error())
		return
	}

	reservation, err := controller.service.CreateReservation(input)
	if err != nil {
		respondInternalError(c, err, "create reservation")
		return
	}
	respondCreated(c, reservation)
}

func (controller *ReservationsController) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input circulation.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid reservation payload: "+err.Error())
		return
	}

	reservation, err := controller.service.UpdateReservation(id, input)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "reservation")
			return
		}
		respondInternalError(c, err, "update reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// ReceiveReservation hands the reserved book to the member. A pending
// reservation becomes RECEIVED and, unless the member already holds the
// book, an active borrowing is opened.
func (controller *ReservationsController) ReceiveReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := controller.service.ReceiveReservation(id)
	if err != nil {
		switch {
		case errors.Is(err, circulation.ErrNotFound):
			respondNotFound(c, "reservation")
		case errors.Is(err, circulation.ErrNotPending):
			respondBadRequest(c, "reservation is not pending")
		default:
			respondInternalError(c, err, "receive reservation")
		}
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (controller *ReservationsController) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.DeleteReservation(id); err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "reservation")
			return
		}
		respondInternalError(c, err, "delete reservation")
		return
	}
	respondSuccess(c, "reservation deleted")
}
