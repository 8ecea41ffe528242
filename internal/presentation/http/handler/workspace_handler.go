package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nethmavilhandesilva/trading-workspace/internal/application/service"
	"github.com/nethmavilhandesilva/trading-workspace/internal/domain/enum"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/dto/request"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/dto/response"
)

// WorkspaceHandler exposes the sales entry workspace to the front-end.
type WorkspaceHandler struct {
	workspace *service.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(workspace *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspace: workspace}
}

// GetState returns the whole-session snapshot the front-end renders.
func (h *WorkspaceHandler) GetState(c *gin.Context) {
	response.OK(c, "Workspace state", h.workspace.State())
}

// Refresh reloads the ledger from the backend (the external refresh
// nudge).
func (h *WorkspaceHandler) Refresh(c *gin.Context) {
	if err := h.workspace.Refresh(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ledger reloaded", h.workspace.State())
}

// ToggleHeld selects or deselects an unprinted customer tab.
func (h *WorkspaceHandler) ToggleHeld(c *gin.Context) {
	var req request.ToggleHeldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entered, err := h.workspace.ToggleHeldCustomer(c.Request.Context(), req.CustomerCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Selection updated", gin.H{"entered": entered})
}

// TogglePrinted selects or deselects a closed bill.
func (h *WorkspaceHandler) TogglePrinted(c *gin.Context) {
	var req request.TogglePrintedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entered := h.workspace.TogglePrintedBill(req.CustomerCode, req.BillNo)
	response.OK(c, "Selection updated", gin.H{"entered": entered})
}

// ClearSelection returns the workspace to fresh-entry mode.
func (h *WorkspaceHandler) ClearSelection(c *gin.Context) {
	h.workspace.ClearSelection()
	response.OK(c, "Selection cleared", nil)
}

// Search sets the customer/bill search filter.
func (h *WorkspaceHandler) Search(c *gin.Context) {
	h.workspace.SetSearch(c.Query("q"))
	response.OK(c, "Filter applied", h.workspace.State())
}

// SetField writes one entry form field.
func (h *WorkspaceHandler) SetField(c *gin.Context) {
	var req request.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.workspace.SetEntryField(c.Request.Context(), enum.ParseEntryField(req.Field), req.Value)
	response.OK(c, "Field updated", h.workspace.State().Form)
}

// SelectCustomer applies a customer picked from the customer list.
func (h *WorkspaceHandler) SelectCustomer(c *gin.Context) {
	var req request.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.workspace.SelectCustomer(c.Request.Context(), req.CustomerCode); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer selected", nil)
}

// SelectItem applies an item-master record to the form.
func (h *WorkspaceHandler) SelectItem(c *gin.Context) {
	var req request.SelectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.workspace.SelectItem(req.ItemCode); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item applied", h.workspace.State().Form)
}

// Advance applies the keyboard advance key from a field.
func (h *WorkspaceHandler) Advance(c *gin.Context) {
	var req request.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	action, err := h.workspace.Advance(c.Request.Context(), enum.ParseEntryField(req.Field))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Advanced", gin.H{
		"kind":            action.Kind.String(),
		"next":            action.Next.String(),
		"settle_delay_ms": action.SettleDelay.Milliseconds(),
	})
}

// EditLine loads an existing row into the entry form.
func (h *WorkspaceHandler) EditLine(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid line id")
		return
	}

	if err := h.workspace.EditLine(id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line loaded for editing", h.workspace.State().Form)
}

// SubmitLine persists the entry form as a create or update.
func (h *WorkspaceHandler) SubmitLine(c *gin.Context) {
	if err := h.workspace.SubmitLine(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line saved", h.workspace.State())
}

// SubmitGivenAmount fans the given amount out across the open tab.
func (h *WorkspaceHandler) SubmitGivenAmount(c *gin.Context) {
	if err := h.workspace.SubmitGivenAmount(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Given amount saved", h.workspace.State())
}

// DeleteLine removes a persisted line. The front-end confirms with the
// operator before calling.
func (h *WorkspaceHandler) DeleteLine(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid line id")
		return
	}

	if err := h.workspace.DeleteLine(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line deleted", h.workspace.State())
}

// PrintBill closes the displayed lines into a numbered bill and renders
// the receipt.
func (h *WorkspaceHandler) PrintBill(c *gin.Context) {
	if err := h.workspace.PrintBill(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill closed and receipt printed", h.workspace.State())
}

// ProcessHeld moves the displayed lines onto the customer's held tab.
func (h *WorkspaceHandler) ProcessHeld(c *gin.Context) {
	if err := h.workspace.ProcessHeld(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lines held", h.workspace.State())
}
