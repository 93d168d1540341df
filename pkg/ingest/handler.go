package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vignesh-goutham/tradelog/pkg/config"
	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
	"github.com/vignesh-goutham/tradelog/pkg/validate"
)

// Error classifications returned in response bodies
const (
	ErrorInvalidJSON      = "Invalid JSON"
	ErrorMissingFields    = "Missing fields"
	ErrorMethodNotAllowed = "Method Not Allowed"
	ErrorTradeExists      = "TradeAlreadyExists"
	ErrorServer           = "ServerError"
)

// Request is a transport-neutral inbound request
type Request struct {
	Method    string
	Body      []byte
	RequestID string
}

// Response is a transport-neutral outbound response
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Notifier is told about every trade that was newly stored
type Notifier interface {
	NotifyTradeLogged(ctx context.Context, trade types.TradeRecord) error
}

type okBody struct {
	OK      bool   `json:"ok"`
	TradeID string `json:"tradeId"`
}

type infoBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Handler validates inbound trades and writes them with the insert-only writer
type Handler struct {
	keys     types.KeySchema
	headers  map[string]string
	writer   store.TradeWriter
	notifier Notifier
	logger   zerolog.Logger
}

// NewHandler creates a handler. notifier may be nil.
func NewHandler(cfg *config.Config, writer store.TradeWriter, notifier Notifier, logger zerolog.Logger) *Handler {
	return &Handler{
		keys: cfg.Keys(),
		headers: map[string]string{
			"Access-Control-Allow-Origin":  cfg.AllowedOrigins,
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Allow-Methods": "OPTIONS,POST",
			"Content-Type":                 "application/json; charset=utf-8",
		},
		writer:   writer,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle processes one request end to end
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	logger := h.logger.With().Str("request_id", req.RequestID).Str("method", req.Method).Logger()

	switch req.Method {
	case http.MethodOptions:
		return h.respond(&logger, http.StatusNoContent, nil)
	case http.MethodGet:
		return h.respond(&logger, http.StatusOK, infoBody{OK: true, Message: "POST a trade."})
	case http.MethodPost:
	default:
		return h.respond(&logger, http.StatusMethodNotAllowed, errorBody{Error: ErrorMethodNotAllowed})
	}

	record, err := validate.Decode(req.Body, h.keys)
	if err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			return h.respond(&logger, http.StatusBadRequest, errorBody{Error: ErrorMissingFields, Missing: missing.Fields})
		}
		logger.Debug().Err(err).Msg("rejected request body")
		return h.respond(&logger, http.StatusBadRequest, errorBody{Error: ErrorInvalidJSON})
	}

	logger = logger.With().Str("pk", record.PartitionKey).Str("sk", record.SortKey).Logger()

	if err := h.writer.PutTrade(ctx, record); err != nil {
		return h.storeFailure(&logger, err)
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyTradeLogged(ctx, record); err != nil {
			logger.Warn().Err(err).Msg("failed to send trade notification")
		}
	}

	return h.respond(&logger, http.StatusOK, okBody{OK: true, TradeID: record.TradeID})
}

// InvalidBody answers a request whose body could not be read. Non-POST requests get
// their usual canned response since they never look at the body.
func (h *Handler) InvalidBody(ctx context.Context, req Request, err error) Response {
	if req.Method != http.MethodPost {
		req.Body = nil
		return h.Handle(ctx, req)
	}

	logger := h.logger.With().Str("request_id", req.RequestID).Str("method", req.Method).Logger()
	logger.Debug().Err(err).Msg("unreadable request body")
	return h.respond(&logger, http.StatusBadRequest, errorBody{Error: ErrorInvalidJSON})
}

// storeFailure maps the store error taxonomy onto responses
func (h *Handler) storeFailure(logger *zerolog.Logger, err error) Response {
	if errors.Is(err, store.ErrConflict) {
		return h.respond(logger, http.StatusConflict, errorBody{Error: ErrorTradeExists, Message: err.Error()})
	}

	body := errorBody{Error: ErrorServer, Message: err.Error()}
	var backendErr *store.BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Code != "" {
			body.Error = backendErr.Code
		}
		body.Message = backendErr.Message
	}

	logger.Error().Err(err).Str("code", body.Error).Msg("failed to store trade")
	return h.respond(logger, http.StatusInternalServerError, body)
}

func (h *Handler) respond(logger *zerolog.Logger, status int, body any) Response {
	resp := Response{StatusCode: status, Headers: maps.Clone(h.headers)}

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			logger.Error().Err(err).Msg("failed to marshal response")
			status = http.StatusInternalServerError
			resp.StatusCode = status
			encoded = []byte(`{"error":"ServerError","message":"failed to marshal response"}`)
		}
		resp.Body = string(encoded)
	}

	logger.Info().Int("status", status).Msg("request handled")
	return resp
}
