package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	domain "github.com/example/task-manager/domain/task"
)

const (
	msgInvalidJSON   = "Invalid JSON body"
	msgBodyNotObject = "Request body must be a JSON object"
	msgTitleRequired = "Title is required"
	msgTitleString   = "Title must be a string"
	msgTitleEmpty    = "Title cannot be empty"
	msgDescription   = "Description must be a string or null"
	msgStatus        = "Status must be one of TODO, IN_PROGRESS, DONE"
	msgInvalidID     = "Task id must be a positive integer"
	msgStatusFilter  = "status must be one of TODO, IN_PROGRESS, DONE"
	msgSortBy        = "sortBy must be one of createdAt, status"
	msgSortOrder     = "sortOrder must be one of asc, desc"
)

// ValidationError reports the first problem found in client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ParseCreate validates a create-task body. The title is trimmed, an empty
// description becomes null and a missing status defaults to TODO.
func ParseCreate(body []byte) (domain.CreateInput, error) {
	fields, err := parseObject(body)
	if err != nil {
		return domain.CreateInput{}, err
	}

	rawTitle, ok := fields["title"]
	if !ok {
		return domain.CreateInput{}, invalid(msgTitleRequired)
	}
	title, err := parseTitle(rawTitle, msgTitleRequired)
	if err != nil {
		return domain.CreateInput{}, err
	}

	in := domain.CreateInput{Title: title, Status: domain.StatusTodo}

	if raw, ok := fields["description"]; ok {
		desc, err := parseDescription(raw)
		if err != nil {
			return domain.CreateInput{}, err
		}
		in.Description = desc
	}

	if raw, ok := fields["status"]; ok {
		status, err := parseStatus(raw)
		if err != nil {
			return domain.CreateInput{}, err
		}
		in.Status = status
	}

	return in, nil
}

// ParseUpdate validates a partial update body. Absent fields stay nil; an
// explicit null or empty description clears it.
func ParseUpdate(body []byte) (domain.Patch, error) {
	fields, err := parseObject(body)
	if err != nil {
		return domain.Patch{}, err
	}

	var p domain.Patch

	if raw, ok := fields["title"]; ok {
		title, err := parseTitle(raw, msgTitleEmpty)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Title = &title
	}

	if raw, ok := fields["description"]; ok {
		desc, err := parseDescription(raw)
		if err != nil {
			return domain.Patch{}, err
		}
		if desc == nil {
			p.ClearDescription = true
		} else {
			p.Description = desc
		}
	}

	if raw, ok := fields["status"]; ok {
		status, err := parseStatus(raw)
		if err != nil {
			return domain.Patch{}, err
		}
		p.Status = &status
	}

	return p, nil
}

// ParseID converts a path segment to a positive task id.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil || id == 0 {
		return 0, invalid(msgInvalidID)
	}
	return uint(id), nil
}

// ParseListQuery reads status, sortBy and sortOrder through query. Empty
// parameters count as absent.
func ParseListQuery(query func(key string) string) (domain.ListQuery, error) {
	q := domain.DefaultListQuery()

	if raw := query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return domain.ListQuery{}, invalid(msgStatusFilter)
		}
		q.Status = &status
	}

	if raw := query("sortBy"); raw != "" {
		q.SortBy = domain.SortBy(raw)
		if !q.SortBy.Valid() {
			return domain.ListQuery{}, invalid(msgSortBy)
		}
	}

	if raw := query("sortOrder"); raw != "" {
		q.SortOrder = domain.SortOrder(raw)
		if !q.SortOrder.Valid() {
			return domain.ListQuery{}, invalid(msgSortOrder)
		}
	}

	return q, nil
}

// parseObject decodes a JSON object into its raw fields. An empty body is
// treated as an empty object.
func parseObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if !json.Valid(body) {
		return nil, invalid(msgInvalidJSON)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, invalid(msgBodyNotObject)
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseTitle(raw json.RawMessage, emptyMsg string) (string, error) {
	if isNull(raw) {
		return "", invalid(msgTitleString)
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return "", invalid(msgTitleString)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid(emptyMsg)
	}
	return title, nil
}

// parseDescription returns nil for null or "".
func parseDescription(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var desc string
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, invalid(msgDescription)
	}
	if desc == "" {
		return nil, nil
	}
	return &desc, nil
}

func parseStatus(raw json.RawMessage) (domain.Status, error) {
	if isNull(raw) {
		return "", invalid(msgStatus)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid(msgStatus)
	}
	status := domain.Status(s)
	if !status.Valid() {
		return "", invalid(msgStatus)
	}
	return status, nil
}
