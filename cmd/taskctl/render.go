package main

import (
	"io"

	"github.com/example/task-manager/client"
	domain "github.com/example/task-manager/domain/task"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const timeLayout = "2006-01-02 15:04"

func renderTasks(w io.Writer, tasks []client.Task) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprint("ID"),
		text.FgGreen.Sprint("Title"),
		text.FgGreen.Sprint("Description"),
		text.FgGreen.Sprint("Status"),
		text.FgGreen.Sprint("Created"),
		text.FgGreen.Sprint("Updated"),
	})

	for _, task := range tasks {
		description := ""
		if task.Description != nil {
			description = *task.Description
		}
		t.AppendRow(table.Row{
			task.ID,
			task.Title,
			description,
			colorStatus(task.Status),
			task.CreatedAt.Local().Format(timeLayout),
			task.UpdatedAt.Local().Format(timeLayout),
		})
	}

	t.Render()
}

func colorStatus(s domain.Status) string {
	switch s {
	case domain.StatusTodo:
		return text.FgHiRed.Sprint(string(s))
	case domain.StatusInProgress:
		return text.FgHiYellow.Sprint(string(s))
	case domain.StatusDone:
		return text.FgHiGreen.Sprint(string(s))
	default:
		return string(s)
	}
}
