package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/export"
	"github.com/andresuchdata/marketpo/internal/planner"
	"github.com/andresuchdata/marketpo/internal/service"
)

// Form field names for the per-platform report uploads.
var uploadFields = []string{"amazon", "flipkart", "meesho"}

type PlanHandler struct {
	service  *service.PlanService
	master   *catalog.Master
	defaults domain.PlanningParams
}

func NewPlanHandler(planService *service.PlanService, master *catalog.Master, defaults domain.PlanningParams) *PlanHandler {
	return &PlanHandler{
		service:  planService,
		master:   master,
		defaults: defaults,
	}
}

// GetDefaults returns the configured planning window defaults so clients
// can pre-fill their forms.
func (h *PlanHandler) GetDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.defaults)
}

// UploadPlan accepts multipart sales reports (fields: amazon, flipkart,
// meesho - each optional) plus planning parameter form fields and responds
// with the plan, orphans and warnings as JSON.
func (h *PlanHandler) UploadPlan(c *gin.Context) {
	result, ok := h.runPlan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPlanWorkbook is UploadPlan with an XLSX response: a "Purchase Plan"
// sheet plus an "Unknown SKUs" sheet when catalog gaps were found.
func (h *PlanHandler) UploadPlanWorkbook(c *gin.Context) {
	result, ok := h.runPlan(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook", "details": err.Error()})
		return
	}

	filename := fmt.Sprintf("Purchase_Plan_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

type lightweightRequest struct {
	Records     []domain.SalesRecord  `json:"records"`
	Multipliers map[string]string     `json:"multipliers"`
	Categories  map[string]string     `json:"categories"`
	Params      domain.PlanningParams `json:"params"`
}

// LightweightPlan runs the catalog-free variant over a JSON payload of
// already-tabulated records plus multiplier and category-prefix tables.
func (h *PlanHandler) LightweightPlan(c *gin.Context) {
	var req lightweightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.Params == (domain.PlanningParams{}) {
		req.Params = h.defaults
	}

	result, err := h.service.GenerateLightweightPlan(req.Records, req.Multipliers, req.Categories, req.Params)
	if err != nil {
		writePlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) runPlan(c *gin.Context) (*planner.Result, bool) {
	params := h.parseParams(c)

	uploads, err := collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploads", "details": err.Error()})
		return nil, false
	}

	result, err := h.service.GeneratePlan(c.Request.Context(), uploads, h.master, params)
	if err != nil {
		writePlanError(c, err)
		return nil, false
	}
	return result, true
}

func (h *PlanHandler) parseParams(c *gin.Context) domain.PlanningParams {
	params := h.defaults

	parse := func(field string, target *int) {
		value := c.PostForm(field)
		if value == "" {
			value = c.Query(field)
		}
		if value == "" {
			return
		}
		if v, err := strconv.Atoi(value); err == nil {
			*target = v
		}
	}

	parse("sales_window_days", &params.SalesWindowDays)
	parse("purchase_window_days", &params.PurchaseWindowDays)
	parse("lead_time_days", &params.LeadTimeDays)
	parse("safety_stock_days", &params.SafetyStockDays)

	return params
}

func collectUploads(c *gin.Context) ([]service.SalesUpload, error) {
	uploads := make([]service.SalesUpload, 0, len(uploadFields))
	for _, field := range uploadFields {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				continue
			}
			return nil, fmt.Errorf("field %s: %w", field, err)
		}

		data, err := readUpload(fileHeader)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}

		uploads = append(uploads, service.SalesUpload{
			Platform: field,
			Filename: fileHeader.Filename,
			Data:     data,
		})
	}
	return uploads, nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writePlanError(c *gin.Context, err error) {
	var fatal *domain.FatalInputError
	if errors.As(err, &fatal) {
		log.Error().Err(err).Msg("planning run rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": fatal.Reason, "source": fatal.Source})
		return
	}
	log.Error().Err(err).Msg("planning run failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate plan", "details": err.Error()})
}
