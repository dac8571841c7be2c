package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarian/internal/circulation"
)

type BorrowingsController struct {
	service *circulation.Service
}

func NewBorrowingsController(service *circulation.Service) *BorrowingsController {
	return &BorrowingsController{
		service: service,
	}
}

// GetBorrowings lists all borrowings, filtered by the memberId query
// parameter when given.
func (controller *BorrowingsController) GetBorrowings(c *gin.Context) {
	memberID, ok := parseOptionalQueryID(c, "memberId")
	if !ok {
		return
	}

	borrowings, err := controller.service.ListBorrowings(memberID)
	if err != nil {
		respondInternalError(c, err, "list borrowings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowings": borrowings, "count": len(borrowings)})
}

func (controller *BorrowingsController) GetBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrowing, err := controller.service.GetBorrowing(id)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "borrowing")
			return
		}
		respondInternalError(c, err, "get borrowing")
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (controller *BorrowingsController) CreateBorrowing(c *gin.Context) {
	var input circulation.BorrowingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid borrowing payload: "+err.Error())
		return
	}

	borrowing, err := controller.service.CreateBorrowing(input)
	if err != nil {
		respondInternalError(c, err, "create borrowing")
		return
	}
	respondCreated(c, borrowing)
}

func (controller *BorrowingsController) UpdateBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input circulation.BorrowingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid borrowing payload: "+err.Error())
		return
	}

	borrowing, err := controller.service.UpdateBorrowing(id, input)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "borrowing")
			return
		}
		respondInternalError(c, err, "update borrowing")
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

// ReturnBorrowing marks the loan as returned today and settles the fee.
func (controller *BorrowingsController) ReturnBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrowing, err := controller.service.ReturnBorrowing(id)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "borrowing")
			return
		}
		respondInternalError(c, err, "return borrowing")
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

func (controller *BorrowingsController) DeleteBorrowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.DeleteBorrowing(id); err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			respondNotFound(c, "borrowing")
			return
		}
		respondInternalError(c, err, "delete borrowing")
		return
	}
	respondSuccess(c, "borrowing deleted")
}
