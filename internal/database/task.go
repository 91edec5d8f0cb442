package database

import (
	"github.com/adimehta/skillbridge/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (d *Database) CreateTask(task *models.Task) error {
	return d.db.Create(task).Error
}

func (d *Database) GetTask(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := d.db.
		Preload("PostedBy").
		Preload("Assignments").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (d *Database) UpdateTask(task *models.Task) error {
	return d.db.Save(task).Error
}

func (d *Database) CreateApplication(app *models.Application) error {
	return d.db.Create(app).Error
}

func (d *Database) GetApplication(taskID, applicantID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := d.db.
		Where("task_id = ? AND applicant_id = ?", taskID, applicantID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (d *Database) HasApplied(taskID, applicantID uuid.UUID) (bool, error) {
	_, err := d.GetApplication(taskID, applicantID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *Database) UpdateApplicationStatus(taskID, applicantID uuid.UUID, status string) error {
	return d.db.Model(&models.Application{}).
		Where("task_id = ? AND applicant_id = ?", taskID, applicantID).
		Update("status", status).Error
}

func (d *Database) GetTaskApplications(taskID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := d.db.
		Where("task_id = ?", taskID).
		Preload("Applicant").
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (d *Database) CreateAssignment(a *models.Assignment) error {
	return d.db.Create(a).Error
}

func (d *Database) GetAssignment(taskID, studentID uuid.UUID) (*models.Assignment, error) {
	var a models.Assignment
	err := d.db.
		Where("task_id = ? AND student_id = ?", taskID, studentID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *Database) UpdateAssignment(a *models.Assignment) error {
	return d.db.Save(a).Error
}

func (d *Database) CountAssignments(taskID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.Assignment{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

// AllAssignmentsCompleted reports whether every assignment on the task
// has been approved. Used to roll the task itself to completed.
func (d *Database) AllAssignmentsCompleted(taskID uuid.UUID) (bool, error) {
	var pending int64
	err := d.db.Model(&models.Assignment{}).
		Where("task_id = ? AND status != ?", taskID, models.AssignmentCompleted).
		Count(&pending).Error
	if err != nil {
		return false, err
	}
	return pending == 0, nil
}
