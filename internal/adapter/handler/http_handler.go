package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/core/service"
)

// HTTPHandler is the thin transport over the services. It validates request
// shapes, maps taxonomy errors to status codes and renders JSON.
type HTTPHandler struct {
	users     *service.UserService
	assets    *service.AssetService
	requests  *service.RequestService
	approvals *service.ApprovalService
	tiers     *service.TierService
	tokens    *TokenIssuer
}

func NewHTTPHandler(users *service.UserService, assets *service.AssetService, requests *service.RequestService, approvals *service.ApprovalService, tiers *service.TierService, tokens *TokenIssuer) *HTTPHandler {
	return &HTTPHandler{
		users:     users,
		assets:    assets,
		requests:  requests,
		approvals: approvals,
		tiers:     tiers,
		tokens:    tokens,
	}
}

// Routes mounts all endpoints on the router.
func (h *HTTPHandler) Routes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/token", h.IssueToken).Methods(http.MethodPost)
	r.HandleFunc("/api/users", h.RegisterUser).Methods(http.MethodPost)
	r.HandleFunc("/api/payments/complete", h.CompletePayment).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(h.RequireAuth)
	authed.HandleFunc("/api/users/me", h.CurrentUser).Methods(http.MethodGet)
	authed.HandleFunc("/api/assets", h.RegisterAsset).Methods(http.MethodPost)
	authed.HandleFunc("/api/assets", h.ListAssets).Methods(http.MethodGet)
	authed.HandleFunc("/api/assets/{id}", h.UpdateAsset).Methods(http.MethodPut)
	authed.HandleFunc("/api/requests", h.SubmitRequest).Methods(http.MethodPost)
	authed.HandleFunc("/api/requests", h.ListRequests).Methods(http.MethodGet)
	authed.HandleFunc("/api/requests/{id}/approve", h.ApproveRequest).Methods(http.MethodPost)
	authed.HandleFunc("/api/requests/{id}/reject", h.RejectRequest).Methods(http.MethodPost)
	authed.HandleFunc("/api/payments/checkout", h.CreateCheckout).Methods(http.MethodPost)
}

type errorResponse struct {
	Message string `json:"message"`
}

// ---- auth / users ----

type issueTokenRequest struct {
	UserID string `json:"user_id"`
}

func (h *HTTPHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "user_id is required"})
		return
	}

	u, err := h.users.Get(r.Context(), req.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type registerUserRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name"`
	CompanyLogo string `json:"company_logo"`
}

func (h *HTTPHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Role == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "name, email and role are required"})
		return
	}

	u, err := h.users.Register(r.Context(), service.RegisterUserInput{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Role:        domain.Role(req.Role),
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *HTTPHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), callerID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// ---- assets ----

type assetRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

func (h *HTTPHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "name is required"})
		return
	}

	asset, err := h.assets.Register(r.Context(), callerID(r), service.AssetInput{
		Name:     req.Name,
		Type:     req.Type,
		Quantity: req.Quantity,
		Image:    req.Image,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

func (h *HTTPHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	asset, err := h.assets.Update(r.Context(), callerID(r), mux.Vars(r)["id"], service.AssetInput{
		Name:     req.Name,
		Type:     req.Type,
		Quantity: req.Quantity,
		Image:    req.Image,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

func (h *HTTPHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListCompany(r.Context(), callerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- requests / decisions ----

type submitRequestRequest struct {
	AssetID string `json:"asset_id"`
}

func (h *HTTPHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req submitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "asset_id is required"})
		return
	}

	created, err := h.requests.Submit(r.Context(), callerID(r), req.AssetID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestResponse(created))
}

// ListRequests serves the HR company view, falling back to the caller's own
// requests for employees.
func (h *HTTPHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListForCompany(r.Context(), callerID(r))
	if errors.Is(err, domain.ErrHRRequired) {
		requests, err = h.requests.ListForEmployee(r.Context(), callerID(r))
	}
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, out)
}

type decisionResponse struct {
	Outcome   string `json:"outcome"`
	RequestID string `json:"request_id"`
}

func (h *HTTPHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	decision, err := h.approvals.Approve(r.Context(), mux.Vars(r)["id"], callerID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionResponse{Outcome: string(decision.Outcome), RequestID: decision.RequestID})
}

func (h *HTTPHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	decision, err := h.approvals.Reject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionResponse{Outcome: string(decision.Outcome), RequestID: decision.RequestID})
}

// ---- payments / tiers ----

type checkoutRequest struct {
	Tier string `json:"tier"`
}

func (h *HTTPHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tier == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "tier is required"})
		return
	}

	url, err := h.tiers.CreateCheckoutSession(r.Context(), callerID(r), req.Tier)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type completePaymentRequest struct {
	CompanyID string `json:"company_id"`
	Tier      string `json:"tier"`
}

// CompletePayment is the provider callback applying the purchased tier.
func (h *HTTPHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	var req completePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyID == "" || req.Tier == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "company_id and tier are required"})
		return
	}

	if err := h.tiers.ApplyTier(r.Context(), req.CompanyID, req.Tier); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "tier applied"})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- responses ----

type userResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Role             string `json:"role"`
	CompanyName      string `json:"company_name,omitempty"`
	CompanyLogo      string `json:"company_logo,omitempty"`
	PackageLimit     int    `json:"package_limit,omitempty"`
	CurrentEmployees int    `json:"current_employees,omitempty"`
	Subscription     string `json:"subscription,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	out := userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Role:        string(u.Role),
	}
	if u.HR != nil {
		out.CompanyName = u.HR.CompanyName
		out.CompanyLogo = u.HR.CompanyLogo
		out.PackageLimit = u.HR.PackageLimit
		out.CurrentEmployees = u.HR.CurrentEmployees
		out.Subscription = u.HR.Subscription
	}
	return out
}

type assetResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAssetResponse(a domain.Asset) assetResponse {
	return assetResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Name:      a.Name,
		Type:      a.Type,
		Quantity:  a.Quantity,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
	}
}

type requestResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeEmail string     `json:"employee_email"`
	CompanyID     string     `json:"company_id"`
	AssetID       string     `json:"asset_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

func toRequestResponse(r domain.Request) requestResponse {
	return requestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeEmail: r.EmployeeEmail,
		CompanyID:     r.CompanyID,
		AssetID:       r.AssetID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		DecidedAt:     r.DecidedAt,
	}
}

// ---- error mapping ----

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrHRRequired),
		errors.Is(err, domain.ErrEmployeeRequired):
		status = http.StatusForbidden
		message = err.Error()
	case domain.IsConflict(err):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrUnknownRole),
		errors.Is(err, domain.ErrCompanyInfoRequired):
		status = http.StatusBadRequest
		message = err.Error()
	}

	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
