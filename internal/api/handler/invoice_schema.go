package handler

// errorResponse is the standard error envelope returned on 4xx/5xx responses
// that do not carry form State.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type listInvoicesQuery struct {
	Query string `query:"query"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
}

// --- Response types ---

type invoiceListItemResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ImageURL   string `json:"image_url"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

type invoiceListResponse struct {
	Invoices   []invoiceListItemResponse `json:"invoices"`
	Query      string                    `json:"query"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"total_pages"`
}

type customerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

type invoiceDetailResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

type invoiceFormResponse struct {
	Invoice   *invoiceDetailResponse `json:"invoice,omitempty"`
	Customers []customerResponse     `json:"customers"`
}

// stateResponse mirrors ports.State for the API docs.
type stateResponse struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
