package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"core-banking-ledger/internal/adapter/http/middleware"
	"core-banking-ledger/internal/core/domain"
	"core-banking-ledger/internal/ledger"
	"core-banking-ledger/internal/service"
	"core-banking-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full in-memory core behind the HTTP layer, the
// same shape cmd/api builds minus the durable adapters.
func newTestRouter() *gin.Engine {
	ids := ledger.NewIdentityAllocator()
	clientTrail := ledger.NewAuditTrail[domain.Client, domain.ClientOperation]()
	accountTrail := ledger.NewAuditTrail[domain.Account, domain.AccountOperation]()
	cardTrail := ledger.NewAuditTrail[domain.Card, domain.CardOperation]()
	txnTrail := ledger.NewAuditTrail[domain.Transaction, domain.TransactionOperation]()

	clients := ledger.NewAuditedRepository[domain.Client, domain.ClientOperation](domain.KindClient, ids, clientTrail)
	accounts := ledger.NewAuditedRepository[domain.Account, domain.AccountOperation](domain.KindAccount, ids, accountTrail)
	cards := ledger.NewAuditedRepository[domain.Card, domain.CardOperation](domain.KindCard, ids, cardTrail)
	txns := ledger.NewAuditedRepository[domain.Transaction, domain.TransactionOperation](domain.KindTransaction, ids, txnTrail)

	accountLedger := service.NewAccountLedger(accounts)
	journal := service.NewTransactionJournal(accountLedger, txns, nil, zerolog.Nop())

	return SetupRouter(RouterDeps{
		ClientSvc:  service.NewClientService(clients, zerolog.Nop()),
		AccountSvc: service.NewAccountService(accounts, clients, accountLedger, zerolog.Nop()),
		CardSvc:    service.NewCardService(cards, accounts, zerolog.Nop()),
		JournalSvc: journal,
		AuditSvc:   service.NewAuditQueryService(clientTrail, accountTrail, cardTrail, txnTrail),
		Logger:     zerolog.Nop(),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, actor string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.HeaderActor, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "expected object data, got: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.ErrorCode
}

// createAccount registers a client and opens an account, returning both ids.
func createAccount(t *testing.T, r *gin.Engine, initial string) (clientID, accountID int64) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/clients", gin.H{
		"name":            "Maria Silva",
		"document_number": fmt.Sprintf("DOC-%d", clientSeq()),
	}, "onboarding")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	clientID = int64(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/v1/accounts", gin.H{
		"client_id":       clientID,
		"type":            "CHECKING",
		"initial_balance": initial,
	}, "onboarding")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	accountID = int64(decodeData(t, w)["id"].(float64))
	return clientID, accountID
}

var seq int64

func clientSeq() int64 {
	seq++
	return seq
}

func TestClientEndpoints_CRUD(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/clients", gin.H{
		"name":            "Maria Silva",
		"document_number": "11122233344",
		"email":           "maria@example.com",
	}, "onboarding")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(t, w)
	id := int64(created["id"].(float64))
	assert.Equal(t, "Maria Silva", created["name"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/clients/%d", id), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/clients/%d", id), gin.H{
		"email": "new@example.com",
	}, "support")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@example.com", decodeData(t, w)["email"])

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/clients/%d", id), nil, "support")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/clients/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REPO_002", errorCode(t, w))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clients/%d/restore", id), nil, "support")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestClientEndpoints_Validation(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/clients", gin.H{"name": "No Document"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/v1/clients/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountEndpoints_Lifecycle(t *testing.T) {
	r := newTestRouter()
	_, accountID := createAccount(t, r, "100.00")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/suspend", accountID), nil, "manager")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["active"])

	// Money movement rejected while suspended.
	w = doJSON(t, r, http.MethodPost, "/api/v1/operations/deposit", gin.H{
		"account_id": accountID,
		"amount":     "10.00",
	}, "teller-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ACC_002", errorCode(t, w))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/reactivate", accountID), nil, "manager")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeData(t, w)["active"])
}

func TestMoneyMovementEndpoints(t *testing.T) {
	r := newTestRouter()
	_, src := createAccount(t, r, "1000.00")
	_, dst := createAccount(t, r, "100.00")

	w := doJSON(t, r, http.MethodPost, "/api/v1/operations/withdraw", gin.H{
		"account_id": src,
		"amount":     "200.00",
	}, "teller-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "WITHDRAWAL", decodeData(t, w)["kind"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/operations/transfer", gin.H{
		"source_account_id":      src,
		"destination_account_id": dst,
		"amount":                 "300.00",
		"description":            "rent",
	}, "alice")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sent := decodeData(t, w)
	assert.Equal(t, "SENT_TRANSFER", sent["kind"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", src), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "500", decodeData(t, w)["balance"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", dst), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "400", decodeData(t, w)["balance"])

	// Destination sees the RECEIVED leg.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/transactions", dst), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	legs, ok := envelope.Data.([]any)
	require.True(t, ok)
	require.Len(t, legs, 1)
	assert.Equal(t, "RECEIVED_TRANSFER", legs[0].(map[string]any)["kind"])
}

func TestMoneyMovementEndpoints_InsufficientFunds(t *testing.T) {
	r := newTestRouter()
	_, accountID := createAccount(t, r, "50.00")

	w := doJSON(t, r, http.MethodPost, "/api/v1/operations/withdraw", gin.H{
		"account_id": accountID,
		"amount":     "60.00",
	}, "teller-1")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "LED_001", errorCode(t, w))
}

func TestReverseEndpoint(t *testing.T) {
	r := newTestRouter()
	_, accountID := createAccount(t, r, "100.00")

	w := doJSON(t, r, http.MethodPost, "/api/v1/operations/deposit", gin.H{
		"account_id": accountID,
		"amount":     "40.00",
	}, "teller-1")
	require.Equal(t, http.StatusCreated, w.Code)
	txnID := int64(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/reverse", txnID), nil, "auditor")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "WITHDRAWAL", decodeData(t, w)["kind"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", accountID), nil, "")
	assert.Equal(t, "100", decodeData(t, w)["balance"])
}

func TestCardEndpoints(t *testing.T) {
	r := newTestRouter()
	_, accountID := createAccount(t, r, "0.00")

	w := doJSON(t, r, http.MethodPost, "/api/v1/cards", gin.H{
		"account_id": accountID,
		"type":       "DEBIT",
	}, "teller-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cardID := int64(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cards/%d/block", cardID), nil, "fraud-desk")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeData(t, w)["blocked"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/cards/%d/activate", cardID), nil, "fraud-desk")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["blocked"])

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/cards", accountID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuditEndpoints(t *testing.T) {
	r := newTestRouter()
	_, accountID := createAccount(t, r, "10.00")

	w := doJSON(t, r, http.MethodPost, "/api/v1/operations/deposit", gin.H{
		"account_id": accountID,
		"amount":     "5.00",
	}, "teller-9")
	require.Equal(t, http.StatusCreated, w.Code)

	// Search by actor spans trails.
	w = doJSON(t, r, http.MethodGet, "/api/v1/audit?actor=teller-9", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	entries, ok := envelope.Data.([]any)
	require.True(t, ok)
	require.NotEmpty(t, entries)
	first := entries[0].(map[string]any)
	assert.Equal(t, "teller-9", first["actor"])

	// Per-entity history.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/audit/history/account/%d", accountID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Single record by UUID.
	w = doJSON(t, r, http.MethodGet, "/api/v1/audit/records/"+first["id"].(string), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// No filter is a validation error.
	w = doJSON(t, r, http.MethodGet, "/api/v1/audit", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint_NoCheckers(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestActorHeaderFlowsToAudit(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/clients", gin.H{
		"name":            "Audited Client",
		"document_number": "55566677788",
	}, "compliance-bot")
	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeData(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/audit/history/client/%d", id), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	entries := envelope.Data.([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "compliance-bot", entries[0].(map[string]any)["actor"])
}
