package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"smskhata/internal/importer"
	"smskhata/internal/parser"
	"smskhata/internal/store"
)

// Handler holds dependencies for the JSON API.
type Handler struct {
	store    *store.Store
	importer *importer.Importer
	log      zerolog.Logger
}

func New(st *store.Store, im *importer.Importer, log zerolog.Logger) *Handler {
	return &Handler{store: st, importer: im, log: log}
}

// Routes registers all endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/extract", h.Extract)
	mux.HandleFunc("/extract/batch", h.ExtractBatch)
	mux.HandleFunc("/accounts", h.Accounts)
	mux.HandleFunc("/import", h.Import)
}

type extractRequest struct {
	Body string `json:"body"`
}

type extractResponse struct {
	Matched     bool                `json:"matched"`
	Transaction *parser.Transaction `json:"transaction,omitempty"`
}

// Extract parses a single message body.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx := parser.Parse(req.Body)
	h.writeJSON(w, extractResponse{Matched: tx != nil, Transaction: tx})
}

type extractBatchRequest struct {
	Bodies []string `json:"bodies"`
}

type extractBatchResponse struct {
	Count        int                  `json:"count"`
	Transactions []parser.Transaction `json:"transactions"`
}

// ExtractBatch parses a batch of bodies, dropping non-matches and keeping
// input order.
func (h *Handler) ExtractBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req extractBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	txs := parser.ParseBatch(req.Bodies)
	if txs == nil {
		txs = []parser.Transaction{}
	}
	h.writeJSON(w, extractBatchResponse{Count: len(txs), Transactions: txs})
}

// Accounts lists stored accounts, defaults first.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("listing accounts")
		http.Error(w, "error loading accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []store.Account{}
	}
	h.writeJSON(w, accounts)
}

// Import runs an import over the configured message source. Optional query
// parameters: since=YYYY-MM-DD, max=N.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.importer == nil {
		http.Error(w, "no message source configured", http.StatusServiceUnavailable)
		return
	}

	var f importer.Filter
	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.DateOnly, since)
		if err != nil {
			http.Error(w, "invalid since date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		f.MinDate = t
	}
	if max := r.URL.Query().Get("max"); max != "" {
		n, err := strconv.Atoi(max)
		if err != nil || n < 0 {
			http.Error(w, "invalid max", http.StatusBadRequest)
			return
		}
		f.MaxCount = n
	}

	summary, err := h.importer.Run(r.Context(), f)
	if err != nil {
		h.log.Error().Err(err).Msg("import run failed")
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, summary)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encoding response")
	}
}
