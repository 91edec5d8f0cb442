package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adimehta/skillbridge/internal/database"
	"github.com/adimehta/skillbridge/internal/middleware"
	"github.com/adimehta/skillbridge/internal/models"
	"github.com/adimehta/skillbridge/internal/notifier"
)

// TaskHandler owns the task lifecycle: post, apply, assign, submit,
// review. Each transition notifies the counterpart user through the
// dispatcher; a failed push never fails the operation.
type TaskHandler struct {
	db         *database.Database
	dispatcher *notifier.Dispatcher
}

func NewTaskHandler(db *database.Database, dispatcher *notifier.Dispatcher) *TaskHandler {
	return &TaskHandler{db: db, dispatcher: dispatcher}
}

// CreateTask posts a new task. MSME only.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description"`
		Budget       int    `json:"budget"`
		MaxAssignees int    `json:"maxAssignees"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	maxAssignees := req.MaxAssignees
	if maxAssignees == 0 {
		maxAssignees = 1
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		PostedByID:   userID,
		Status:       models.TaskStatusOpen,
		MaxAssignees: maxAssignees,
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": task})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// ApplyForTask files a student's application and notifies the owner.
func (h *TaskHandler) ApplyForTask(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.Status != models.TaskStatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task is not open for applications"})
		return
	}

	applied, err := h.db.HasApplied(taskID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check application"})
		return
	}
	if applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already applied for this task"})
		return
	}

	var req struct {
		CoverLetter string `json:"coverLetter"`
	}
	c.ShouldBindJSON(&req)

	app := &models.Application{
		TaskID:      taskID,
		ApplicantID: userID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateApplication(app); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply"})
		return
	}

	applicant, err := h.db.GetUser(userID.String())
	applicantName := "A student"
	if err == nil {
		applicantName = applicant.Name
	}

	h.dispatcher.Notify(
		task.PostedByID,
		&userID,
		models.CategoryApplication,
		&app.ID,
		models.RelatedApplication,
		fmt.Sprintf("%s applied for your task: %s", applicantName, task.Title),
	)

	c.JSON(http.StatusCreated, gin.H{"data": app})
}

// GetTaskApplicants lists applications for a task. Owner only.
func (h *TaskHandler) GetTaskApplicants(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.PostedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your task"})
		return
	}

	apps, err := h.db.GetTaskApplications(taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get applicants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(apps), "data": apps})
}

// AssignTask accepts an applicant onto the task and notifies them.
// Owner only.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req struct {
		StudentID uuid.UUID `json:"studentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.PostedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to assign this task"})
		return
	}

	applied, err := h.db.HasApplied(taskID, req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check application"})
		return
	}
	if !applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student has not applied for this task"})
		return
	}

	if _, err := h.db.GetAssignment(taskID, req.StudentID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student is already assigned to this task"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check assignment"})
		return
	}

	count, err := h.db.CountAssignments(taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count assignments"})
		return
	}
	if count >= int64(task.MaxAssignees) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task has reached maximum number of assignees"})
		return
	}

	assignment := &models.Assignment{
		TaskID:    taskID,
		StudentID: req.StudentID,
		Status:    models.AssignmentInProgress,
		CreatedAt: time.Now(),
	}
	if err := h.db.CreateAssignment(assignment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign task"})
		return
	}

	task.Status = models.TaskStatusInProgress
	if err := h.db.UpdateTask(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	if err := h.db.UpdateApplicationStatus(taskID, req.StudentID, models.ApplicationAccepted); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update application"})
		return
	}

	h.dispatcher.Notify(
		req.StudentID,
		&userID,
		models.CategoryAssignment,
		&task.ID,
		models.RelatedTask,
		fmt.Sprintf("You have been assigned to the task: %s", task.Title),
	)

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// SubmitWork records a student's submission and notifies the owner.
func (h *TaskHandler) SubmitWork(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	assignment, err := h.db.GetAssignment(taskID, userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not assigned to this task"})
		return
	}

	var req struct {
		Content     string   `json:"content" binding:"required"`
		Attachments []string `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	assignment.SubmissionContent = req.Content
	assignment.SubmissionAttachments = req.Attachments
	assignment.SubmittedAt = &now
	assignment.Status = models.AssignmentSubmitted

	if err := h.db.UpdateAssignment(assignment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit work"})
		return
	}

	student, err := h.db.GetUser(userID.String())
	studentName := "A student"
	if err == nil {
		studentName = student.Name
	}

	h.dispatcher.Notify(
		task.PostedByID,
		&userID,
		models.CategorySubmission,
		&task.ID,
		models.RelatedTask,
		fmt.Sprintf("%s has submitted work for: %s", studentName, task.Title),
	)

	c.JSON(http.StatusOK, gin.H{"data": assignment})
}

// ReviewWork approves a submission or requests revisions, then
// notifies the student. Owner only.
func (h *TaskHandler) ReviewWork(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req struct {
		StudentID uuid.UUID `json:"studentId" binding:"required"`
		Action    string    `json:"action" binding:"required,oneof=approve revise"`
		Feedback  string    `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.db.GetTask(taskID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if task.PostedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to review this task"})
		return
	}

	assignment, err := h.db.GetAssignment(taskID, req.StudentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	category := models.CategoryFeedback
	message := fmt.Sprintf("Revision requested for %s", task.Title)

	if req.Action == "approve" {
		assignment.Status = models.AssignmentCompleted
		category = models.CategoryCompletion
		message = fmt.Sprintf("Your work for %s has been approved!", task.Title)
	} else {
		assignment.Status = models.AssignmentRevisions
	}
	assignment.Feedback = req.Feedback

	if err := h.db.UpdateAssignment(assignment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update assignment"})
		return
	}

	allDone, err := h.db.AllAssignmentsCompleted(taskID)
	if err == nil && allDone {
		task.Status = models.TaskStatusCompleted
		if err := h.db.UpdateTask(task); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
			return
		}
	}

	h.dispatcher.Notify(
		req.StudentID,
		&userID,
		category,
		&task.ID,
		models.RelatedTask,
		message,
	)

	c.JSON(http.StatusOK, gin.H{"data": assignment})
}
