package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/librarian/internal/database/members"
	"github.com/openshelf/librarian/internal/entities"
	"github.com/openshelf/librarian/internal/mail"
	"github.com/openshelf/librarian/internal/sequence"
	"github.com/openshelf/librarian/internal/tasks"
)

// MemberInput carries the caller-supplied fields of a member record. The
// member number, borrowing limit and default dates are assigned by the
// server.
type MemberInput struct {
	UserID           *uint                   `json:"user_id"`
	FirstName        string                  `json:"first_name" binding:"required"`
	LastName         string                  `json:"last_name" binding:"required"`
	Email            string                  `json:"email" binding:"required,email"`
	PhoneNumber      string                  `json:"phone_number"`
	Address          string                  `json:"address"`
	EmergencyContact string                  `json:"emergency_contact"`
	MembershipType   entities.MembershipType `json:"membership_type"`
	JoiningDate      *time.Time              `json:"joining_date"`
	ExpiryDate       *time.Time              `json:"expiry_date"`
}

type MembersController struct {
	store      *members.Repository
	numbers    *sequence.Generator
	taskClient *tasks.Client
}

// NewMembersController creates the controller. taskClient may be nil, in
// which case no welcome emails are sent.
func NewMembersController(store *members.Repository, numbers *sequence.Generator, taskClient *tasks.Client) *MembersController {
	return &MembersController{
		store:      store,
		numbers:    numbers,
		taskClient: taskClient,
	}
}

// GetAllMembers lists members. Supports filtering via query parameters:
// status, membershipType, withFines, expiringBefore (RFC 3339 date).
func (controller *MembersController) GetAllMembers(c *gin.Context) {
	var (
		result []entities.Member
		err    error
	)

	switch {
	case c.Query("status") != "":
		result, err = controller.store.GetByStatus(entities.MemberStatus(c.Query("status")))
	case c.Query("membershipType") != "":
		result, err = controller.store.GetByMembershipType(entities.MembershipType(c.Query("membershipType")))
	case c.Query("withFines") == "true":
		result, err = controller.store.GetWithFines()
	case c.Query("expiringBefore") != "":
		date, parseErr := time.Parse(time.RFC3339, c.Query("expiringBefore"))
		if parseErr != nil {
			respondBadRequest(c, "invalid expiringBefore date, want RFC 3339")
			return
		}
		result, err = controller.store.GetExpiringBefore(date)
	default:
		result, err = controller.store.GetAll()
	}
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": result, "count": len(result)})
}

func (controller *MembersController) GetMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "get member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetCurrentMember returns the member record linked to the acting user's
// login account. Members without a linked account cannot be resolved here.
func (controller *MembersController) GetCurrentMember(c *gin.Context) {
	userID := GetUserID(c)

	member, err := controller.store.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "get current member")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (controller *MembersController) GetMemberByNumber(c *gin.Context) {
	memberNumber := c.Param("number")

	member, err := controller.store.GetByMemberNumber(memberNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "get member by number")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (controller *MembersController) SearchMembers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	result, err := controller.store.Search(query)
	if err != nil {
		respondInternalError(c, err, "search members")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": result, "count": len(result)})
}

// CreateMember registers a new member. A card number is assigned, the
// borrowing limit follows the membership tier, expiry defaults to one year
// after joining, and a welcome email is queued.
func (controller *MembersController) CreateMember(c *gin.Context) {
	var input MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid member payload: "+err.Error())
		return
	}

	membershipType := input.MembershipType
	if membershipType == "" {
		membershipType = entities.MembershipTypeBasic
	}

	joiningDate := input.JoiningDate
	if joiningDate == nil {
		now := time.Now()
		joiningDate = &now
	}
	expiryDate := input.ExpiryDate
	if expiryDate == nil {
		expiry := joiningDate.AddDate(1, 0, 0)
		expiryDate = &expiry
	}

	member := entities.Member{
		MemberNumber:     controller.numbers.NextMemberNumber(),
		UserID:           input.UserID,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		PhoneNumber:      input.PhoneNumber,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		MembershipType:   membershipType,
		JoiningDate:      joiningDate,
		ExpiryDate:       expiryDate,
		Status:           entities.MemberStatusActive,
		BorrowingLimit:   membershipType.BorrowingLimit(),
	}
	if err := controller.store.Create(&member); err != nil {
		respondInternalError(c, err, "create member")
		return
	}

	if controller.taskClient != nil {
		msg := mail.MemberWelcomeMessage(member.Email, member.FirstName, member.MemberNumber, string(member.MembershipType))
		_, _ = controller.taskClient.Add(tasks.NewSendEmailTask(msg)).Save()
	}

	respondCreated(c, member)
}

func (controller *MembersController) UpdateMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid member payload: "+err.Error())
		return
	}

	member, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "update member")
		return
	}

	member.UserID = input.UserID
	member.FirstName = input.FirstName
	member.LastName = input.LastName
	member.Email = input.Email
	member.PhoneNumber = input.PhoneNumber
	member.Address = input.Address
	member.EmergencyContact = input.EmergencyContact
	if input.MembershipType != "" && input.MembershipType != member.MembershipType {
		member.MembershipType = input.MembershipType
		member.BorrowingLimit = input.MembershipType.BorrowingLimit()
	}
	if input.JoiningDate != nil {
		member.JoiningDate = input.JoiningDate
	}
	if input.ExpiryDate != nil {
		member.ExpiryDate = input.ExpiryDate
	}

	if err := controller.store.Save(member); err != nil {
		respondInternalError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// SuspendMember puts the member on hold; suspended members keep their card
// number and history.
func (controller *MembersController) SuspendMember(c *gin.Context) {
	controller.setStatus(c, entities.MemberStatusSuspended)
}

// ActivateMember lifts a suspension or expiry.
func (controller *MembersController) ActivateMember(c *gin.Context) {
	controller.setStatus(c, entities.MemberStatusActive)
}

func (controller *MembersController) setStatus(c *gin.Context, status entities.MemberStatus) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := controller.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "set member status")
		return
	}

	member.Status = status
	if err := controller.store.Save(member); err != nil {
		respondInternalError(c, err, "set member status")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (controller *MembersController) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exists, err := controller.store.ExistsByID(id)
	if err != nil {
		respondInternalError(c, err, "delete member")
		return
	}
	if !exists {
		respondNotFound(c, "member")
		return
	}

	if err := controller.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete member")
		return
	}
	respondSuccess(c, "member deleted")
}

func (controller *MembersController) GetMemberStats(c *gin.Context) {
	total, err := controller.store.Count()
	if err != nil {
		respondInternalError(c, err, "member stats")
		return
	}

	byStatus := make(map[string]int64)
	for _, status := range []entities.MemberStatus{
		entities.MemberStatusActive,
		entities.MemberStatusSuspended,
		entities.MemberStatusExpired,
	} {
		count, err := controller.store.CountByStatus(status)
		if err != nil {
			respondInternalError(c, err, "member stats")
			return
		}
		byStatus[string(status)] = count
	}

	byType := make(map[string]int64)
	for _, t := range []entities.MembershipType{
		entities.MembershipTypeBasic,
		entities.MembershipTypePremium,
		entities.MembershipTypeStudent,
	} {
		count, err := controller.store.CountByMembershipType(t)
		if err != nil {
			respondInternalError(c, err, "member stats")
			return
		}
		byType[string(t)] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"total_members":      total,
		"by_status":          byStatus,
		"by_membership_type": byType,
	})
}
