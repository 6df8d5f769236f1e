package api

import (
	"errors"
	"testing"

	domain "github.com/example/task-manager/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreate(t *testing.T) {
	desc := "notes"
	spaced := "  keep spaces  "

	tests := []struct {
		name    string
		body    string
		want    domain.CreateInput
		wantErr string
	}{
		{
			name: "title only defaults status",
			body: `{"title":"Buy milk"}`,
			want: domain.CreateInput{Title: "Buy milk", Status: domain.StatusTodo},
		},
		{
			name: "all fields",
			body: `{"title":" Buy milk ","description":"notes","status":"DONE"}`,
			want: domain.CreateInput{Title: "Buy milk", Description: &desc, Status: domain.StatusDone},
		},
		{
			name: "description is not trimmed",
			body: `{"title":"x","description":"  keep spaces  "}`,
			want: domain.CreateInput{Title: "x", Description: &spaced, Status: domain.StatusTodo},
		},
		{
			name: "null description",
			body: `{"title":"x","description":null}`,
			want: domain.CreateInput{Title: "x", Status: domain.StatusTodo},
		},
		{
			name: "unknown fields ignored",
			body: `{"title":"x","priority":3}`,
			want: domain.CreateInput{Title: "x", Status: domain.StatusTodo},
		},
		{name: "missing title", body: `{}`, wantErr: msgTitleRequired},
		{name: "whitespace title", body: `{"title":"\t "}`, wantErr: msgTitleRequired},
		{name: "null title", body: `{"title":null}`, wantErr: msgTitleString},
		{name: "object title", body: `{"title":{}}`, wantErr: msgTitleString},
		{name: "numeric description", body: `{"title":"x","description":1}`, wantErr: msgDescription},
		{name: "lowercase status", body: `{"title":"x","status":"done"}`, wantErr: msgStatus},
		{name: "null status", body: `{"title":"x","status":null}`, wantErr: msgStatus},
		{name: "not json", body: `title=x`, wantErr: msgInvalidJSON},
		{name: "string body", body: `"x"`, wantErr: msgBodyNotObject},
		{name: "null body", body: `null`, wantErr: msgBodyNotObject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCreate([]byte(tc.body))
			if tc.wantErr != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				assert.Equal(t, tc.wantErr, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseUpdate(t *testing.T) {
	title := "New"
	desc := "text"
	done := domain.StatusDone

	tests := []struct {
		name    string
		body    string
		want    domain.Patch
		wantErr string
	}{
		{name: "empty object", body: `{}`, want: domain.Patch{}},
		{name: "empty body", body: ``, want: domain.Patch{}},
		{name: "title trimmed", body: `{"title":"  New "}`, want: domain.Patch{Title: &title}},
		{name: "description set", body: `{"description":"text"}`, want: domain.Patch{Description: &desc}},
		{name: "description null clears", body: `{"description":null}`, want: domain.Patch{ClearDescription: true}},
		{name: "description empty clears", body: `{"description":""}`, want: domain.Patch{ClearDescription: true}},
		{name: "status only", body: `{"status":"DONE"}`, want: domain.Patch{Status: &done}},
		{name: "blank title", body: `{"title":"  "}`, wantErr: msgTitleEmpty},
		{name: "null title", body: `{"title":null}`, wantErr: msgTitleString},
		{name: "bad status", body: `{"status":"CLOSED"}`, wantErr: msgStatus},
		{name: "array body", body: `[]`, wantErr: msgBodyNotObject},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUpdate([]byte(tc.body))
			if tc.wantErr != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				assert.Equal(t, tc.wantErr, verr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want uint
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"18446744073709551615", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseID(tc.raw)
			if !tc.ok {
				require.Error(t, err)
				assert.Equal(t, msgInvalidID, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseListQuery(t *testing.T) {
	todo := domain.StatusTodo

	tests := []struct {
		name    string
		params  map[string]string
		want    domain.ListQuery
		wantErr string
	}{
		{
			name:   "defaults",
			params: map[string]string{},
			want:   domain.ListQuery{SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc},
		},
		{
			name:   "all set",
			params: map[string]string{"status": "TODO", "sortBy": "status", "sortOrder": "asc"},
			want:   domain.ListQuery{Status: &todo, SortBy: domain.SortByStatus, SortOrder: domain.SortAsc},
		},
		{
			name:   "empty values are absent",
			params: map[string]string{"status": "", "sortBy": "", "sortOrder": ""},
			want:   domain.ListQuery{SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc},
		},
		{name: "bad status", params: map[string]string{"status": "todo"}, wantErr: msgStatusFilter},
		{name: "bad sortBy", params: map[string]string{"sortBy": "updatedAt"}, wantErr: msgSortBy},
		{name: "bad sortOrder", params: map[string]string{"sortOrder": "DESC"}, wantErr: msgSortOrder},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseListQuery(func(key string) string { return tc.params[key] })
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
