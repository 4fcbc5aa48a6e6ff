package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gatewise/escrowd/internal/domain"
	"github.com/gatewise/escrowd/internal/usecase/report"
	"github.com/gatewise/escrowd/internal/usecase/transfer"
)

// Info describes the running service for the /v1/info endpoint
type Info struct {
	Service  string `json:"service"`
	Instance string `json:"instance"`
	Version  string `json:"version"`
}

// Server exposes the escrow lifecycle and queries over a JSON HTTP API
type Server struct {
	Transfers *transfer.TransferService
	Reports   *report.ReportService
	Logger    *zap.Logger
	Info      Info
}

// NewServer creates a new HTTP API server instance
func NewServer(
	transfers *transfer.TransferService,
	reports *report.ReportService,
	logger *zap.Logger,
	info Info,
) *Server {
	return &Server{
		Transfers: transfers,
		Reports:   reports,
		Logger:    logger,
		Info:      info,
	}
}

// Router builds the chi router. All /v1 routes require the bearer token;
// /healthz does not.
func (s *Server) Router(authToken string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(api chi.Router) {
		api.Use(RequestLogger(s.Logger))
		api.Use(BearerAuth(authToken))

		api.Post("/transfers", s.handleCreateTransfer)
		api.Get("/transfers", s.handleListTransfers)
		api.Get("/transfers/{id}", s.handleGetTransfer)
		api.Post("/transfers/{id}/approve", s.handleApproveTransfer)
		api.Post("/transfers/{id}/reject", s.handleRejectTransfer)
		api.Post("/transfers/{id}/cancel", s.handleCancelTransfer)
		api.Get("/custody/report", s.handleCustodyReport)
		api.Get("/info", s.handleInfo)
	})

	return r
}

// coinPayload represents one attached coin; amounts accept JSON strings or numbers
type coinPayload struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

// transferPayload represents a transfer record on the wire; amounts serialize
// as JSON strings
type transferPayload struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Denom     string          `json:"denom"`
	Amount    decimal.Decimal `json:"amount"`
	Recipient string          `json:"recipient"`
}

type attributePayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type instructionPayload struct {
	Amount decimal.Decimal `json:"amount"`
	Denom  string          `json:"denom"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

func toTransferPayload(t *domain.Transfer) transferPayload {
	return transferPayload{
		ID:        t.ID.String(),
		Sender:    t.Sender,
		Denom:     t.Denom,
		Amount:    t.Amount,
		Recipient: t.Recipient,
	}
}

func toCoins(coins []coinPayload) []domain.Coin {
	if len(coins) == 0 {
		return nil
	}
	funds := make([]domain.Coin, 0, len(coins))
	for _, coin := range coins {
		funds = append(funds, domain.Coin{Denom: coin.Denom, Amount: coin.Amount})
	}
	return funds
}

func toAttributePayloads(attributes []transfer.Attribute) []attributePayload {
	payloads := make([]attributePayload, 0, len(attributes))
	for _, attribute := range attributes {
		payloads = append(payloads, attributePayload{Key: attribute.Key, Value: attribute.Value})
	}
	return payloads
}

func toInstructionPayload(instruction domain.CustodyTransfer) instructionPayload {
	return instructionPayload{
		Amount: instruction.Amount,
		Denom:  instruction.Denom,
		From:   instruction.From,
		To:     instruction.To,
	}
}

// handleCreateTransfer handles POST /v1/transfers
func (s *Server) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string           `json:"id"`
		Denom     string           `json:"denom"`
		Amount    *decimal.Decimal `json:"amount"`
		Recipient string           `json:"recipient"`
		Funds     []coinPayload    `json:"funds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, domain.WrapError(domain.KindInvalidFields, "invalid request body", err))
		return
	}

	// Boundary validation: the id must be a well-formed UUID and the amount
	// must be present; everything else is the core's precondition check
	id, err := uuid.Parse(req.ID)
	if err != nil {
		s.writeError(w, domain.NewFieldError("id"))
		return
	}
	if req.Amount == nil {
		s.writeError(w, domain.NewFieldError("amount"))
		return
	}

	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	result, err := s.Transfers.CreateTransfer(r.Context(), transfer.CreateTransferInput{
		Caller:    caller,
		Funds:     toCoins(req.Funds),
		ID:        id,
		Denom:     req.Denom,
		Amount:    *req.Amount,
		Recipient: req.Recipient,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logResult("transfer created", result)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"transfer":    toTransferPayload(&result.Transfer),
		"attributes":  toAttributePayloads(result.Attributes),
		"instruction": toInstructionPayload(result.Instruction),
	})
}

// handleApproveTransfer handles POST /v1/transfers/{id}/approve
func (s *Server) handleApproveTransfer(w http.ResponseWriter, r *http.Request) {
	s.handleResolve(w, r, "transfer approved", s.Transfers.ApproveTransfer)
}

// handleRejectTransfer handles POST /v1/transfers/{id}/reject
func (s *Server) handleRejectTransfer(w http.ResponseWriter, r *http.Request) {
	s.handleResolve(w, r, "transfer rejected", s.Transfers.RejectTransfer)
}

// handleCancelTransfer handles POST /v1/transfers/{id}/cancel
func (s *Server) handleCancelTransfer(w http.ResponseWriter, r *http.Request) {
	s.handleResolve(w, r, "transfer cancelled", s.Transfers.CancelTransfer)
}

type resolveFunc func(ctx context.Context, input transfer.ResolveTransferInput) (*transfer.Result, error)

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request, message string, resolve resolveFunc) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, domain.NewFieldError("id"))
		return
	}

	// Resolution bodies are optional and carry only attached funds
	var req struct {
		Funds []coinPayload `json:"funds"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, domain.WrapError(domain.KindInvalidFields, "invalid request body", err))
			return
		}
	}

	caller, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	result, err := resolve(r.Context(), transfer.ResolveTransferInput{
		Caller: caller,
		Funds:  toCoins(req.Funds),
		ID:     id,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logResult(message, result)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"attributes":  toAttributePayloads(result.Attributes),
		"instruction": toInstructionPayload(result.Instruction),
	})
}

// handleGetTransfer handles GET /v1/transfers/{id}
func (s *Server) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, domain.NewFieldError("id"))
		return
	}

	record, err := s.Transfers.GetTransfer(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"transfer": toTransferPayload(record)})
}

// handleListTransfers handles GET /v1/transfers with an optional denom filter
func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	records, err := s.Transfers.ListTransfers(r.Context(), r.URL.Query().Get("denom"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	transfers := make([]transferPayload, 0, len(records))
	for _, record := range records {
		transfers = append(transfers, toTransferPayload(record))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

// handleCustodyReport handles GET /v1/custody/report
func (s *Server) handleCustodyReport(w http.ResponseWriter, r *http.Request) {
	result, err := s.Reports.CustodyReport(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	denominations := make([]map[string]any, 0, len(result.Denominations))
	for _, entry := range result.Denominations {
		denominations = append(denominations, map[string]any{
			"denom":   entry.Denom,
			"total":   entry.Total,
			"pending": entry.Pending,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"denominations": denominations,
		"pending_total": result.PendingTotal,
	})
}

// handleInfo handles GET /v1/info
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Info)
}

// requireCaller extracts the acting principal set by the trusted gateway
func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		s.writeError(w, domain.NewFieldError("caller"))
		return "", false
	}
	return caller, true
}

func (s *Server) logResult(message string, result *transfer.Result) {
	fields := make([]zap.Field, 0, len(result.Attributes))
	for _, attribute := range result.Attributes {
		fields = append(fields, zap.String(attribute.Key, attribute.Value))
	}
	s.Logger.Info(message, fields...)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorBody is the JSON error envelope: {"error": {"code", "message", "fields?"}}
type errorBody struct {
	Error struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Fields  []string `json:"fields,omitempty"`
	} `json:"error"`
}

// writeError maps a domain error to its HTTP status and envelope. Unclassified
// errors are internal failures: logged in full, surfaced without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)

	var body errorBody
	body.Error.Code = string(kind)
	body.Error.Message = err.Error()

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		body.Error.Fields = domainErr.Fields
	}

	if kind == domain.KindInternal {
		s.Logger.Error("request failed", zap.Error(err))
		body.Error.Message = "internal error"
	}

	s.writeJSON(w, statusFor(kind), body)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidFields, domain.KindAttachedFundsUnsupported:
		return http.StatusBadRequest
	case domain.KindUnsupportedAssetType, domain.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.KindTransferNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
