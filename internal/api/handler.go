package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/box-packer/internal/logging"
	"github.com/eugenenazirov/box-packer/internal/metrics"
	"github.com/eugenenazirov/box-packer/internal/packing"
	"github.com/eugenenazirov/box-packer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultMaxBatchSize = 100

// Handler wires packer and storage dependencies into HTTP handlers.
type Handler struct {
	packer  packing.Packer
	storage storage.Storage
	metrics *metrics.Recorder
	logger  *zap.Logger

	clock        func() time.Time
	maxBatchSize int
	workers      int

	mu                 sync.RWMutex
	containerUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records evaluation outcomes on the given recorder.
func WithMetrics(recorder *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.metrics = recorder
	}
}

// WithLogger sets the logger used for evaluation events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMaxBatchSize caps the number of items accepted by the batch endpoint.
func WithMaxBatchSize(size int) HandlerOption {
	return func(h *Handler) {
		if size > 0 {
			h.maxBatchSize = size
		}
	}
}

// WithWorkers bounds how many batch items are evaluated concurrently.
func WithWorkers(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.workers = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(packer packing.Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:  packer,
		storage: store,
		logger:  zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxBatchSize: defaultMaxBatchSize,
		workers:      runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.containerUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	_ = r
	container, err := h.storage.GetContainer()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := containerResponse{
		Container: toDimensions(container),
		Volume:    container.Volume(),
		UpdatedAt: h.currentContainerUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutContainer(w http.ResponseWriter, r *http.Request) {
	var req dimensionsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid container", err.Error())
		return
	}

	container, err := req.prism()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid container", err.Error())
		return
	}

	if err := h.storage.SetContainer(container); err != nil {
		if errors.Is(err, storage.ErrInvalidContainer) {
			writeError(w, http.StatusBadRequest, "Invalid container", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markContainerUpdated()
	h.logger.Info("default container updated", logging.PrismFields("container", container.Dimensions())...)

	resp := containerResponse{
		Container: toDimensions(container),
		Volume:    container.Volume(),
		UpdatedAt: h.currentContainerUpdatedAt(),
		Message:   "Container updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := req.check(); err != nil {
		h.metrics.ObserveFailure(metrics.OutcomeInvalidDimension)
		writeError(w, http.StatusBadRequest, "Invalid dimensions", err.Error())
		return
	}

	defaultContainer, err := h.storage.GetContainer()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp, status, errResp := h.evaluate(req, defaultContainer)
	if errResp != nil {
		writeJSON(w, status, errResp)
		return
	}

	h.logger.Debug("evaluation completed",
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.String("evaluation_id", resp.ID),
		zap.String("orientation", resp.Orientation.Code),
		zap.Int("units", resp.Units),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if len(req.Items) > h.maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "Batch too large",
			fmt.Sprintf("batch contains %d items, maximum is %d", len(req.Items), h.maxBatchSize),
			"Split the request into smaller batches")
		return
	}

	defaultContainer, err := h.storage.GetContainer()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	results := make([]batchItemResponse, len(req.Items))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.workers)

	for i := range req.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = h.evaluateBatchItem(i, req.Items[i], defaultContainer)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
		}
	}

	h.logger.Info("batch evaluation completed",
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Int("items", len(results)),
		zap.Int("failed", failed),
	)
	writeJSON(w, http.StatusOK, batchResponse{Results: results, Failed: failed})
}

func (h *Handler) evaluateBatchItem(index int, item evaluateRequest, defaultContainer packing.Prism) batchItemResponse {
	if err := item.check(); err != nil {
		h.metrics.ObserveFailure(metrics.OutcomeInvalidDimension)
		return batchItemResponse{
			Index: index,
			Error: &errorResponse{Error: "Invalid dimensions", Details: err.Error()},
		}
	}

	resp, _, errResp := h.evaluate(item, defaultContainer)
	return batchItemResponse{Index: index, Result: resp, Error: errResp}
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "id must be a UUID")
		return
	}

	rec, err := h.storage.GetEvaluation(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEvaluationResponse(rec, 0))
}

// evaluate runs one search for an already validated request and records it.
// On failure it returns the HTTP status and error body to use.
func (h *Handler) evaluate(req evaluateRequest, defaultContainer packing.Prism) (*evaluationResponse, int, *errorResponse) {
	container := defaultContainer
	if req.Container != nil {
		c, err := req.Container.prism()
		if err != nil {
			h.metrics.ObserveFailure(metrics.OutcomeInvalidDimension)
			return nil, http.StatusBadRequest, &errorResponse{Error: "Invalid container", Details: err.Error()}
		}
		container = c
	}

	product, err := req.Product.prism()
	if err != nil {
		h.metrics.ObserveFailure(metrics.OutcomeInvalidDimension)
		return nil, http.StatusBadRequest, &errorResponse{Error: "Invalid product", Details: err.Error()}
	}

	start := time.Now()
	eval, evalErr := h.packer.Evaluate(container, product)
	elapsed := time.Since(start)

	if evalErr != nil {
		switch {
		case errors.Is(evalErr, packing.ErrInvalidDimension):
			h.metrics.ObserveFailure(metrics.OutcomeInvalidDimension)
			return nil, http.StatusBadRequest, &errorResponse{Error: "Invalid dimensions", Details: evalErr.Error()}
		case errors.Is(evalErr, packing.ErrDivisionByZero):
			h.metrics.ObserveFailure(metrics.OutcomeDomainError)
			return nil, http.StatusUnprocessableEntity, &errorResponse{
				Error:      "Cannot evaluate orientation",
				Details:    evalErr.Error(),
				Suggestion: "All product dimensions must be greater than zero",
			}
		case errors.Is(evalErr, packing.ErrUnitsOverflow):
			h.metrics.ObserveFailure(metrics.OutcomeDomainError)
			return nil, http.StatusUnprocessableEntity, &errorResponse{
				Error:      "Cannot evaluate orientation",
				Details:    evalErr.Error(),
				Suggestion: "Use a smaller container or a larger product so the unit count stays in range",
			}
		default:
			h.metrics.ObserveFailure(metrics.OutcomeError)
			return nil, http.StatusInternalServerError, &errorResponse{Error: "Internal error", Details: evalErr.Error()}
		}
	}

	rec, err := h.storage.SaveEvaluation(eval, h.clock())
	if err != nil {
		h.metrics.ObserveFailure(metrics.OutcomeError)
		return nil, http.StatusInternalServerError, &errorResponse{Error: "Internal error", Details: err.Error()}
	}

	h.metrics.ObserveEvaluation(eval.Orientation.Code(), eval.Units, elapsed)

	resp := toEvaluationResponse(rec, elapsed)
	return &resp, http.StatusOK, nil
}

func (h *Handler) currentContainerUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.containerUpdatedAt
}

func (h *Handler) markContainerUpdated() {
	h.mu.Lock()
	h.containerUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
