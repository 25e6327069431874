package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/gtm-studio/internal/board"
	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// SessionHandler exposes the dashboard flows of one session over HTTP.
type SessionHandler struct {
	store *SessionStore
	log   *logger.Logger
}

func NewSessionHandler(store *SessionStore, log *logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionHandler{store: store, log: log}
}

type viewRequest struct {
	View string `json:"view" binding:"required"`
}

type generateRequest struct {
	Description string `json:"description"`
}

type creativeRequest struct {
	Content   *string `json:"content"`
	AssetType *string `json:"assetType"`
}

type profileRequest struct {
	Role        *string `json:"role"`
	CompanySize *string `json:"companySize"`
}

type addItemRequest struct {
	Value string `json:"value"`
}

type reorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// shell resolves the :id path parameter, writing the 404 itself when missing.
func (h *SessionHandler) shell(c *gin.Context) (*flow.Shell, bool) {
	sh, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return nil, false
	}
	return sh, true
}

// POST /api/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	id, sh := h.store.Create()
	c.Header("Location", "/api/sessions/"+id)
	c.JSON(http.StatusCreated, gin.H{"id": id, "state": sh.Snapshot()})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sh.Snapshot())
}

// PUT /api/sessions/:id/view
func (h *SessionHandler) Navigate(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	view, err := flow.ParseView(req.View)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	sh.Navigate(view)
	c.JSON(http.StatusOK, sh.Snapshot())
}

// POST /api/sessions/:id/icp/generate
func (h *SessionHandler) Generate(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	if _, err := sh.Generator.Submit(c.Request.Context(), req.Description); err != nil {
		respondError(c, err, sh.Generator.Snapshot())
		return
	}
	c.JSON(http.StatusOK, sh.Generator.Snapshot())
}

// POST /api/sessions/:id/icp/select
func (h *SessionHandler) Select(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	if _, err := sh.SelectProfile(); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sh.Snapshot())
}

// PUT /api/sessions/:id/creative
func (h *SessionHandler) UpdateCreative(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	var req creativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	if err := applyCreative(sh.Creative, req); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

func applyCreative(f *flow.CreativeFlow, req creativeRequest) error {
	if req.AssetType != nil {
		t, err := models.ParseAssetType(*req.AssetType)
		if err != nil {
			return err
		}
		f.SetAssetType(t)
	}
	if req.Content != nil {
		f.SetContent(*req.Content)
	}
	return nil
}

// PATCH /api/sessions/:id/creative/profile
func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	sh.Creative.UpdateProfile(req.Role, req.CompanySize)
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// POST /api/sessions/:id/creative/profile/:field
func (h *SessionHandler) AddItem(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	field, err := models.ParseListField(c.Param("field"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	// Blank values are ignored rather than rejected.
	sh.Creative.AddItem(field, req.Value)
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// DELETE /api/sessions/:id/creative/profile/:field/:index
func (h *SessionHandler) RemoveItem(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	field, err := models.ParseListField(c.Param("field"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	if err := sh.Creative.RemoveItem(field, index); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// POST /api/sessions/:id/creative/profile/:field/reorder
func (h *SessionHandler) ReorderItem(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	field, err := models.ParseListField(c.Param("field"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidRequest(err), nil)
		return
	}
	if err := sh.Creative.ReorderItem(field, *req.From, *req.To); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// POST /api/sessions/:id/creative/analyze
func (h *SessionHandler) Analyze(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	// The body is optional here.
	var req creativeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, invalidRequest(err), nil)
		return
	}
	if err := applyCreative(sh.Creative, req); err != nil {
		respondError(c, err, nil)
		return
	}
	if _, err := sh.Creative.Analyze(c.Request.Context()); err != nil {
		respondError(c, err, sh.Creative.Snapshot())
		return
	}
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// POST /api/sessions/:id/creative/revision
func (h *SessionHandler) ApplyRevision(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	if err := sh.Creative.ApplyRevision(); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sh.Creative.Snapshot())
}

// GET /api/dashboard
func Dashboard(c *gin.Context) {
	d, err := board.LoadDashboard()
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/leads
func Leads(c *gin.Context) {
	cols, err := board.Board()
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": cols})
}
