package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Commands ---

func loadObjects(api DataAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		objects, err := api.ListObjects(ctx)
		return objectsLoadedMsg{objects: objects, err: err}
	}
}

func loadFields(api DataAPI, timeout time.Duration, objectName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		fields, err := api.ListFields(ctx, objectName)
		return fieldsLoadedMsg{objectName: objectName, fields: fields, err: err}
	}
}

func loadRecords(api DataAPI, timeout time.Duration, objectName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		page, err := api.ListRecords(ctx, objectName, recordPageLimit)
		return recordsLoadedMsg{objectName: objectName, page: page, err: err}
	}
}

func bulkCreateCmd(api DataAPI, timeout time.Duration, objectName string, count int) tea.Cmd {
	req := BulkCreateRequest{Count: count, Template: BulkTemplate(objectName)}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := api.BulkCreate(ctx, objectName, req)
		return bulkCreatedMsg{objectName: objectName, count: count, result: result, err: err}
	}
}

func deleteRecordCmd(api DataAPI, timeout time.Duration, objectName, recordID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := api.DeleteRecord(ctx, objectName, recordID)
		return recordDeletedMsg{objectName: objectName, recordID: recordID, result: result, err: err}
	}
}
