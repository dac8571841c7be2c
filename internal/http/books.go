package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/database/books"
	"github.com/openshelf/librarian/internal/entities"
)

// BookInput carries the caller-supplied fields of a book record.
type BookInput struct {
	BookNo          string `json:"book_no"`
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	Genre           string `json:"genre"`
	Year            int    `json:"year"`
	Edition         string `json:"edition"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	Image           string `json:"image"`
	Availability    *bool  `json:"availability"`
	AvailableCopies int    `json:"available_copies"`
	Location        string `json:"location"`
}

func (in BookInput) apply(book *entities.Book) {
	book.BookNo = in.BookNo
	book.Title = in.Title
	book.Author = in.Author
	book.Genre = in.Genre
	book.Year = in.Year
	book.Edition = in.Edition
	book.Description = in.Description
	book.Language = in.Language
	book.Image = in.Image
	book.AvailableCopies = in.AvailableCopies
	book.Location = in.Location
	if in.Availability != nil {
		book.Availability = *in.Availability
	} else {
		book.Availability = in.AvailableCopies > 0
	}
}

type BooksController struct {
	store *books.Repository
}

func NewBooksController(store *books.Repository) *BooksController {
	return &BooksController{
		store: store,
	}
}

// GetAllBooks lists the catalog. Supports filtering via query parameters:
// available, language, from/to (publication year range).
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	var (
		result []entities.Book
		err    error
	)

	switch {
	case c.Query("available") != "":
		available, parseErr := strconv.ParseBool(c.Query("available"))
		if parseErr != nil {
			respondBadRequest(c, "invalid available filter")
			return
		}
		result, err = controller.store.GetByAvailability(available)
	case c.Query("language") != "":
		result, err = controller.store.GetByLanguage(c.Query("language"))
	case c.Query("from") != "" || c.Query("to") != "":
		from, to, ok := parseYearRange(c)
		if !ok {
			return
		}
		result, err = controller.store.GetByYearRange(from, to)
	default:
		result, err = controller.store.GetAll()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

func parseYearRange(c *gin.Context) (int, int, bool) {
	from, to := 0, 9999
	var err error
	if s := c.Query("from"); s != "" {
		if from, err = strconv.Atoi(s); err != nil {
			respondBadRequest(c, "invalid from year")
			return 0, 0, false
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = strconv.Atoi(s); err != nil {
			respondBadRequest(c, "invalid to year")
			return 0, 0, false
		}
	}
	return from, to, true
}

func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// SearchBooks matches the q parameter against title, author and genre.
// The field parameter narrows the search to one column.
func (controller *BooksController) SearchBooks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	var (
		result []entities.Book
		err    error
	)
	switch field := c.Query("field"); field {
	case "":
		result, err = controller.store.Search(query)
	case "title", "author", "genre":
		result, err = controller.store.SearchByField(field, query)
	default:
		respondBadRequest(c, "field must be one of title, author, genre")
		return
	}
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}

	var book entities.Book
	input.apply(&book)
	if err := controller.store.Create(&book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}

	book, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	input.apply(book)
	if err := controller.store.Save(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exists, err := controller.store.ExistsByID(id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if !exists {
		respondNotFound(c, "book")
		return
	}

	if err := controller.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

func (controller *BooksController) GetBookStats(c *gin.Context) {
	stats, err := controller.store.GetStats()
	if err != nil {
		respondInternalError(c, err, "book stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
