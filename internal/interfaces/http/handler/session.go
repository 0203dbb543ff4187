package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderdesk/backend/internal/application/session"
	"github.com/orderdesk/backend/internal/domain/order"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
)

// SessionHandler exposes the order editing session API: opening and
// closing sessions, replacing editable state, attaching photos, and
// saving the aggregate upstream.
type SessionHandler struct {
	BaseHandler
	manager *session.Manager
	logger  *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(manager *session.Manager, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{manager: manager, logger: log}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.Open)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id/order", h.UpdateOrder)
		sessions.PUT("/:id/collections/:kind", h.ReplaceCollection)
		sessions.POST("/:id/records/:kind/:recordId/assets", h.AttachAssets)
		sessions.POST("/:id/save", h.Save)
		sessions.DELETE("/:id", h.CloseSession)
	}
}

// Open starts an editing session. With an order_id the aggregate is
// loaded from upstream; without one a new-order session is opened.
func (h *SessionHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	s, err := h.manager.Open(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newSessionView(s))
}

// Get returns the current editing state of a session
func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newSessionView(s))
}

// UpdateOrder replaces the root product and terms fields of the session
// aggregate.
func (h *SessionHandler) UpdateOrder(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req OrderEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, terms, err := req.toDomain()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := s.ApplyOrderEdit(product, terms); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newSessionView(s))
}

// ReplaceCollection replaces one sub-collection wholesale. The cost-items
// kind carries both peer lists in a single request; the shipment-shaped
// and nested kinds carry their own row lists.
func (h *SessionHandler) ReplaceCollection(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	kind := order.CollectionKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Unknown collection kind")
		return
	}

	switch kind {
	case order.CollectionCostItems:
		var req CostItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		options, err := costItemsToDomain(req.Options)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		labor, err := costItemsToDomain(req.Labor)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		s.ReplaceCostItems(options, labor)

	case order.CollectionFactoryShipments, order.CollectionReturnExchanges:
		var req ShipmentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		records, err := shipmentsToDomain(req.Records)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if err := s.ReplaceShipments(kind, records); err != nil {
			h.HandleError(c, err)
			return
		}

	case order.CollectionWorkRecords:
		var req WorkRecordsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		records, err := workRecordsToDomain(req.Records)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		s.ReplaceWorkRecords(records)

	case order.CollectionDeliverySets:
		var req DeliverySetsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		sets, err := deliverySetsToDomain(req.Sets)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		s.ReplaceDeliverySets(sets)
	}

	h.Success(c, newSessionView(s))
}

// AttachAssets attaches uploaded photos to one record as pending assets.
// Files beyond the record's capacity are rejected; the response reports
// how many were accepted.
func (h *SessionHandler) AttachAssets(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	kind := order.AssetOwnerKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Unknown record kind")
		return
	}

	recordID, err := order.ParseItemID(c.Param("recordId"))
	if err != nil || recordID.IsZero() {
		h.BadRequest(c, "Invalid record identifier")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		h.BadRequest(c, "No files uploaded")
		return
	}

	uploads := make([]session.AssetUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.BadRequest(c, "Unreadable upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.BadRequest(c, "Unreadable upload")
			return
		}
		uploads = append(uploads, session.AssetUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	accepted, err := s.AttachAssets(kind, recordID, uploads)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AttachAssetsResponse{
		Accepted: accepted,
		Rejected: len(uploads) - accepted,
	})
}

// Save pushes the session aggregate upstream and refreshes the baseline.
// Admin-only cost items require an elevated principal.
func (h *SessionHandler) Save(c *gin.Context) {
	s, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := s.Save(c.Request.Context(), middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(result.AssetWarnings) > 0 {
		h.logger.Warn("save completed with asset upload failures",
			zap.String("session_id", s.ID),
			zap.Int64("order_id", result.OrderID),
			zap.Int("warnings", len(result.AssetWarnings)))
	}

	h.Success(c, SaveResponse{
		Created:       result.Created,
		OrderID:       result.OrderID,
		Dirty:         s.Dirty(),
		AssetWarnings: result.AssetWarnings,
		Reloaded:      result.Reloaded,
		Session:       newSessionView(s),
	})
}

// CloseSession ends a session, releasing any pending asset previews
func (h *SessionHandler) CloseSession(c *gin.Context) {
	if err := h.manager.Close(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
