// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Provides add, update, delete, clear and read operations for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/harper/tally/internal/models"
	"github.com/harper/tally/internal/ui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerListItemsTool()
	s.registerAddItemTool()
	s.registerUpdateItemTool()
	s.registerDeleteItemTool()
	s.registerClearItemsTool()
	s.registerGetTotalTool()
}

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

var emptySchema = map[string]interface{}{
	"type":       "object",
	"properties": map[string]interface{}{},
}

// ItemOutput is one item as reported to agents.
type ItemOutput struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ListItemsOutput defines output for list_items and the items resource.
type ListItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
	Total int          `json:"total"`
}

// ItemResultOutput reports a changed item and the new total.
type ItemResultOutput struct {
	Item  ItemOutput `json:"item"`
	Total int        `json:"total"`
}

// TotalOutput defines output for get_total, delete_item and clear_items.
type TotalOutput struct {
	Total int `json:"total"`
	Count int `json:"count"`
}

func toOutput(item models.Item) ItemOutput {
	return ItemOutput{ID: item.ID, Name: item.Name, Quantity: item.Quantity}
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

func (s *Server) listOutput() ListItemsOutput {
	store := s.coord.Store()
	all := store.All()
	out := ListItemsOutput{
		Items: make([]ItemOutput, len(all)),
		Count: len(all),
		Total: store.Total(),
	}
	for i, item := range all {
		out.Items[i] = toOutput(item)
	}
	return out
}

func (s *Server) totalOutput() TotalOutput {
	store := s.coord.Store()
	return TotalOutput{Total: store.Total(), Count: store.Len()}
}

func (s *Server) registerListItemsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_items",
		Description: "List all tracked items in insertion order with the running total.",
		InputSchema: emptySchema,
	}, s.handleListItems)
}

func (s *Server) handleListItems(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, ListItemsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.listOutput()
	return textResult(output), output, nil
}

// AddItemInput defines input for add_item tool.
type AddItemInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (s *Server) registerAddItemTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_item",
		Description: "Add an item with a non-negative whole-number quantity.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Item name (e.g., 'apples')",
				},
				"quantity": map[string]interface{}{
					"type":        "integer",
					"description": "Quantity, zero or more",
					"minimum":     0,
				},
			},
			"required": []string{"name", "quantity"},
		},
	}, s.handleAddItem)
}

func (s *Server) handleAddItem(_ context.Context, _ *mcp.CallToolRequest, input AddItemInput) (*mcp.CallToolResult, ItemResultOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term.SetForm(input.Name, strconv.Itoa(input.Quantity))
	if err := s.term.Emit(ui.Event{Kind: ui.SubmitAdd}); err != nil {
		s.term.ClearForm()
		return nil, ItemResultOutput{}, fmt.Errorf("add item: %w", err)
	}

	all := s.coord.Store().All()
	output := ItemResultOutput{
		Item:  toOutput(all[len(all)-1]),
		Total: s.coord.Store().Total(),
	}
	return textResult(output), output, nil
}

// UpdateItemInput defines input for update_item tool.
type UpdateItemInput struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (s *Server) registerUpdateItemTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_item",
		Description: "Replace the name and quantity of an existing item, found by id.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Item id from list_items",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New item name",
				},
				"quantity": map[string]interface{}{
					"type":        "integer",
					"description": "New quantity, zero or more",
					"minimum":     0,
				},
			},
			"required": []string{"id", "name", "quantity"},
		},
	}, s.handleUpdateItem)
}

func (s *Server) handleUpdateItem(_ context.Context, _ *mcp.CallToolRequest, input UpdateItemInput) (*mcp.CallToolResult, ItemResultOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.term.Emit(ui.Event{Kind: ui.RowEdit, ID: input.ID}); err != nil {
		return nil, ItemResultOutput{}, fmt.Errorf("update item: %w", err)
	}
	s.term.SetForm(input.Name, strconv.Itoa(input.Quantity))
	if err := s.term.Emit(ui.Event{Kind: ui.SubmitUpdate}); err != nil {
		_ = s.term.Emit(ui.Event{Kind: ui.CancelEdit})
		return nil, ItemResultOutput{}, fmt.Errorf("update item: %w", err)
	}

	item, err := s.coord.Store().ByID(input.ID)
	if err != nil {
		return nil, ItemResultOutput{}, fmt.Errorf("update item: %w", err)
	}
	output := ItemResultOutput{Item: toOutput(item), Total: s.coord.Store().Total()}
	return textResult(output), output, nil
}

// DeleteItemInput defines input for delete_item tool.
type DeleteItemInput struct {
	ID int `json:"id"`
}

func (s *Server) registerDeleteItemTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_item",
		Description: "Delete an item by id.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Item id from list_items",
				},
			},
			"required": []string{"id"},
		},
	}, s.handleDeleteItem)
}

func (s *Server) handleDeleteItem(_ context.Context, _ *mcp.CallToolRequest, input DeleteItemInput) (*mcp.CallToolResult, TotalOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.term.Emit(ui.Event{Kind: ui.RowEdit, ID: input.ID}); err != nil {
		return nil, TotalOutput{}, fmt.Errorf("delete item: %w", err)
	}
	if err := s.term.Emit(ui.Event{Kind: ui.SubmitDelete}); err != nil {
		return nil, TotalOutput{}, fmt.Errorf("delete item: %w", err)
	}

	output := s.totalOutput()
	return textResult(output), output, nil
}

func (s *Server) registerClearItemsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_items",
		Description: "Remove every item. This cannot be undone.",
		InputSchema: emptySchema,
	}, s.handleClearItems)
}

func (s *Server) handleClearItems(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, TotalOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.term.Emit(ui.Event{Kind: ui.ClearAll}); err != nil {
		return nil, TotalOutput{}, fmt.Errorf("clear items: %w", err)
	}

	output := s.totalOutput()
	return textResult(output), output, nil
}

func (s *Server) registerGetTotalTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_total",
		Description: "Get the sum of all item quantities.",
		InputSchema: emptySchema,
	}, s.handleGetTotal)
}

func (s *Server) handleGetTotal(_ context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, TotalOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.totalOutput()
	return textResult(output), output, nil
}
