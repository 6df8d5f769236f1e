package client

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
)

// ValidationError is returned before any request is sent when input breaks
// a client-side rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateNewTask trims and checks a task before it is created.
func ValidateNewTask(in NewTask) (NewTask, error) {
	title, err := validateTitle(in.Title, "Title is required")
	if err != nil {
		return NewTask{}, err
	}
	in.Title = title

	if err := validateDescription(in.Description); err != nil {
		return NewTask{}, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return NewTask{}, invalidStatus()
	}
	return in, nil
}

// ValidateTaskUpdate checks the fields an update sets. An empty description
// becomes an explicit clear.
func ValidateTaskUpdate(u TaskUpdate) (TaskUpdate, error) {
	if u.Title != nil {
		title, err := validateTitle(*u.Title, "Title cannot be empty")
		if err != nil {
			return TaskUpdate{}, err
		}
		u.Title = &title
	}

	if u.Description != nil {
		if *u.Description == "" {
			u.Description = nil
			u.ClearDescription = true
		} else if err := validateDescription(*u.Description); err != nil {
			return TaskUpdate{}, err
		}
	}

	if u.Status != nil && !u.Status.Valid() {
		return TaskUpdate{}, invalidStatus()
	}
	return u, nil
}

func validateTitle(raw, emptyMsg string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &ValidationError{Message: emptyMsg}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", &ValidationError{Message: fmt.Sprintf("Title must be at most %d characters", MaxTitleLength)}
	}
	return title, nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return &ValidationError{Message: fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength)}
	}
	return nil
}

func invalidStatus() error {
	return &ValidationError{Message: "Status must be one of TODO, IN_PROGRESS, DONE"}
}
