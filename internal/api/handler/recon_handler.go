package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/compare"
	"go-deal-recon/internal/enrich"
	"go-deal-recon/internal/export"
	"go-deal-recon/internal/ingest"
	"go-deal-recon/internal/model"
	"go-deal-recon/internal/store"
	"go-deal-recon/internal/table"
	"go-deal-recon/pkg/router"
)

// maxUploadBytes caps in-memory multipart parsing.
const maxUploadBytes = 64 << 20

// Recon serves the comparison and formatting endpoints.
type Recon struct {
	Analyzer  *compare.Analyzer
	Cache     *cache.Cache
	Processor *enrich.Processor
	Logger    *zap.Logger
}

func NewRecon(analyzer *compare.Analyzer, c *cache.Cache, processor *enrich.Processor, logger *zap.Logger) *Recon {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recon{Analyzer: analyzer, Cache: c, Processor: processor, Logger: logger.Named("handler")}
}

// Compare runs a full reconciliation over two uploaded files
// POST /api/v1/compare
func (h *Recon) Compare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart payload", http.StatusBadRequest)
		return
	}

	formatted, err := h.loadTable(r, "formatted_file", r.FormValue("formatted_sheet"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	comparison, err := h.loadTable(r, "comparison_file", r.FormValue("comparison_sheet"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	opts := model.Options{
		FormattedQuantityLetter:  r.FormValue("formatted_quantity_letter"),
		ComparisonQuantityColumn: r.FormValue("comparison_quantity_column"),
	}

	payload, err := h.Analyzer.Analyze(formatted, comparison, opts)
	if err != nil {
		if dbErr := store.SaveAnalysisError(cache.NewToken(), err); dbErr != nil {
			h.Logger.Warn("failed to record analysis error", zap.Error(dbErr))
		}
		h.writeError(w, err)
		return
	}

	if err := store.SaveAnalysis(payload.Token, payload.Overview); err != nil {
		h.Logger.Warn("failed to record analysis", zap.String("token", payload.Token), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, payload)
}

// ExportExcel serves the workbook export for a cached analysis
// GET /api/v1/compare/:token/excel
func (h *Recon) ExportExcel(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFor(w, r)
	if !ok {
		return
	}
	data, err := export.Excel(entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	serveDownload(w, data,
		"analysis_"+entry.Token+".xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportCSV serves the flagged-deals table
// GET /api/v1/compare/:token/csv
func (h *Recon) ExportCSV(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFor(w, r)
	if !ok {
		return
	}
	data, err := export.CSV(entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	serveDownload(w, data, "analysis_"+entry.Token+".csv", "text/csv")
}

// ExportPDF serves the narrative summary
// GET /api/v1/compare/:token/pdf
func (h *Recon) ExportPDF(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFor(w, r)
	if !ok {
		return
	}
	data, err := export.PDF(entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	serveDownload(w, data, "analysis_"+entry.Token+".pdf", "application/pdf")
}

// Process builds the formatted rebilling workbook from a raw export
// POST /api/v1/process
func (h *Recon) Process(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart payload", http.StatusBadRequest)
		return
	}

	data, _, err := readUpload(r, "file")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var existing []byte
	if file, _, err := r.FormFile("existing_file"); err == nil {
		existing, err = io.ReadAll(file)
		file.Close()
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	settings := enrich.Settings{
		OutputSheetName: r.FormValue("output_sheet_name"),
		RawSheet1Name:   r.FormValue("raw_sheet1_name"),
		RawSheet2Name:   r.FormValue("raw_sheet2_name"),
		RawSheet3Name:   r.FormValue("raw_sheet3_name"),
	}

	out, err := h.Processor.Process(data, existing, settings)
	if err != nil {
		h.writeError(w, err)
		return
	}
	serveDownload(w, out, "formatted_output.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ListAnalyses returns run history
// GET /api/v1/analyses
func (h *Recon) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := store.ListAnalyses()
	if err != nil {
		http.Error(w, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}
	if analyses == nil {
		analyses = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, analyses)
}

// Health reports service liveness
// GET /health
func (h *Recon) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Recon) entryFor(w http.ResponseWriter, r *http.Request) (*cache.Entry, bool) {
	token := router.Param(r, "token")
	if token == "" {
		http.Error(w, "Analysis token is required", http.StatusBadRequest)
		return nil, false
	}
	entry, err := h.Cache.Get(token)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return entry, true
}

func (h *Recon) loadTable(r *http.Request, field, sheet string) (*table.Table, error) {
	data, filename, err := readUpload(r, field)
	if err != nil {
		return nil, err
	}
	if sheet != "" {
		return ingest.ReadExcel(data, sheet)
	}
	return ingest.Read(filename, data)
}

func readUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", model.NewInputError("missing upload field " + field)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, headerName(header), nil
}

func headerName(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Filename
}

// writeError maps domain errors to HTTP statuses: bad input and schema
// failures are the client's problem, unknown tokens are 404, the rest
// is a 500.
func (h *Recon) writeError(w http.ResponseWriter, err error) {
	var inputErr *model.InputError
	var schemaErr *model.SchemaError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &inputErr), errors.As(err, &schemaErr):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.Logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, map[string]interface{}{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func serveDownload(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
