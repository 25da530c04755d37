package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/chorejar/internal/model"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/storage"
)

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

type checklistRequest struct {
	Text  string `json:"text" binding:"required"`
	Stars *int   `json:"stars"`
}

type moveRequest struct {
	To string `json:"to" binding:"required"`
}

type amountRequest struct {
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type goalRequest struct {
	Name   string `json:"name"`
	Amount int    `json:"amount" binding:"required"`
}

type wishRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       *int   `json:"price"`
	Description string `json:"description"`
}

type diaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type stateResponse struct {
	State             *model.AppState        `json:"state"`
	Today             string                 `json:"today"`
	NextPayout        rewards.PayoutProgress `json:"nextPayout"`
	TasksToKeepStreak int                    `json:"tasksToKeepStreak"`
}

type weeklyResponse struct {
	Days          []model.DayStat `json:"days"`
	Stars         int             `json:"stars"`
	Tasks         int             `json:"tasks"`
	HasLastWeek   bool            `json:"hasLastWeek"`
	LastWeekStars int             `json:"lastWeekStars"`
	LastWeekTasks int             `json:"lastWeekTasks"`
	Diff          int             `json:"diff"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chorejar",
		"today":   s.svc.Today(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) state() stateResponse {
	return stateResponse{
		State:             s.svc.Snapshot(),
		Today:             s.svc.Today(),
		NextPayout:        s.svc.NextPayout(),
		TasksToKeepStreak: s.svc.TasksToKeepStreak(),
	}
}

func (s *Server) handleAddChecklist(c *gin.Context) {
	var req checklistRequest
	if !bind(c, &req) {
		return
	}
	stars := 1
	if req.Stars != nil {
		stars = *req.Stars
	}
	task, err := s.svc.AddChecklistTask(c.Request.Context(), req.Text, stars)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleToggleChecklist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	task, err := s.svc.ToggleChecklistTask(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteChecklist(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteChecklistTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddKanban(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	card, err := s.svc.AddKanbanTask(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) handleMoveKanban(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req moveRequest
	if !bind(c, &req) {
		return
	}
	to, err := model.ParseColumn(req.To)
	if err != nil {
		s.fail(c, err)
		return
	}
	from, err := s.svc.MoveKanbanTask(c.Request.Context(), id, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "from": from, "to": to})
}

func (s *Server) handleDeleteKanban(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteKanbanTask(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGrant(c *gin.Context) {
	s.amountAction(c, s.svc.GrantStars)
}

func (s *Server) handleDeposit(c *gin.Context) {
	s.amountAction(c, s.svc.DepositPiggy)
}

func (s *Server) handleWithdraw(c *gin.Context) {
	s.amountAction(c, s.svc.WithdrawPiggy)
}

func (s *Server) handleSpend(c *gin.Context) {
	s.amountAction(c, s.svc.SpendWallet)
}

func (s *Server) handleCredit(c *gin.Context) {
	s.amountAction(c, s.svc.CreditWallet)
}

// amountAction binds an amountRequest, applies fn and answers with the
// resulting state.
func (s *Server) amountAction(c *gin.Context, fn func(ctx context.Context, amount int, desc string) error) {
	var req amountRequest
	if !bind(c, &req) {
		return
	}
	if err := fn(c.Request.Context(), req.Amount, req.Description); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.state())
}

func (s *Server) handleExchange(c *gin.Context) {
	var req amountRequest
	if !bind(c, &req) {
		return
	}
	q, err := s.svc.ExchangeStars(c.Request.Context(), req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) handleExchangePreview(c *gin.Context) {
	n, err := strconv.Atoi(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a whole number"})
		return
	}
	q, err := s.svc.ExchangePreview(n)
	if err != nil && !errors.Is(err, rewards.ErrBelowOneBundle) {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) handlePayout(c *gin.Context) {
	paid, err := s.svc.PayOutPiggy(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paid": paid})
}

func (s *Server) handleGoal(c *gin.Context) {
	var req goalRequest
	if !bind(c, &req) {
		return
	}
	if err := s.svc.SetPiggyGoal(c.Request.Context(), req.Name, req.Amount); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.svc.Snapshot().Piggy)
}

func (s *Server) handleSettings(c *gin.Context) {
	var req model.Settings
	if !bind(c, &req) {
		return
	}
	if err := s.svc.UpdateSettings(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleWeekly(c *gin.Context) {
	w := s.svc.WeeklySummary()
	c.JSON(http.StatusOK, weeklyResponse{
		Days:          w.Days,
		Stars:         w.Stars,
		Tasks:         w.Tasks,
		HasLastWeek:   w.HasLastWeek,
		LastWeekStars: w.LastWeekStars,
		LastWeekTasks: w.LastWeekTasks,
		Diff:          w.Diff(),
	})
}

func (s *Server) handleAddRule(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	if err := s.svc.AddRule(c.Request.Context(), req.Text); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rules": s.svc.Snapshot().Rules})
}

func (s *Server) handleDeleteRule(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rule index must be a whole number"})
		return
	}
	if err := s.svc.DeleteRule(c.Request.Context(), index); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddWish(c *gin.Context) {
	var req wishRequest
	if !bind(c, &req) {
		return
	}
	wish, err := s.svc.AddWish(c.Request.Context(), req.Name, req.Price, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"wish": wish, "affordable": wish.Affordable(s.svc.SavedFunds())})
}

func (s *Server) handleDeleteWish(c *gin.Context) {
	if _, err := s.svc.DeleteWish(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddDiary(c *gin.Context) {
	var req diaryRequest
	if !bind(c, &req) {
		return
	}
	entry, err := s.svc.AddDiaryEntry(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := model.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}
	if errors.Is(err, rewards.ErrSaveFailed) {
		body = gin.H{"error": storage.UserMessage(err), "code": storage.Reason(err)}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, body)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rewards.ErrSaveFailed):
		switch storage.Reason(err) {
		case storage.ReasonQuota:
			return http.StatusInsufficientStorage
		case storage.ReasonTooLarge:
			return http.StatusRequestEntityTooLarge
		case storage.ReasonInvalid:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusInternalServerError
		}
	case errors.Is(err, rewards.ErrTaskNotFound),
		errors.Is(err, rewards.ErrRuleNotFound),
		errors.Is(err, rewards.ErrWishNotFound):
		return http.StatusNotFound
	case errors.Is(err, rewards.ErrInsufficientFunds), errors.Is(err, rewards.ErrBelowOneBundle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, rewards.ErrInvalidAmount),
		errors.Is(err, rewards.ErrInvalidColumn),
		errors.Is(err, rewards.ErrInvalidSettings),
		errors.Is(err, model.ErrInvalidStars),
		errors.Is(err, model.ErrTextRequired),
		errors.Is(err, model.ErrTextTooLong),
		errors.Is(err, model.ErrContentRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
