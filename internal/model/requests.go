package model

// RegisterRequest is the payload for creating an attendee account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
	Phone    string `json:"phone"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate changes an attendee's contact details. Password is optional.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// CreateExhibitionRequest is the payload for adding an exhibition.
type CreateExhibitionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateExhibitionRequest renames or redescribes an exhibition.
type UpdateExhibitionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateWorkshopRequest is the payload for adding a workshop.
type CreateWorkshopRequest struct {
	Title          string `json:"title"`
	Time           string `json:"time"`
	Capacity       int    `json:"capacity"`
	ExhibitionName string `json:"exhibition_name"`
}

// PricingUpdate sets any subset of the prices.
type PricingUpdate struct {
	Standard      *Money `json:"price_standard,omitempty"`
	AllAccess     *Money `json:"price_all_access,omitempty"`
	AddExhibition *Money `json:"upgrade_add_exhibition_cost,omitempty"`
}

// QuoteRequest asks for a pending transaction.
type QuoteRequest struct {
	Kind       TransactionKind `json:"kind"`
	Exhibition string          `json:"exhibition,omitempty"`
}

// CheckoutRequest finalizes a quoted transaction.
type CheckoutRequest struct {
	Transaction PendingTransaction `json:"transaction"`
	Card        Card               `json:"card"`
}

// LoginResponse carries the session and its bearer token.
type LoginResponse struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// PassView is the attendee's digital pass with resolved workshops.
type PassView struct {
	Holder    string     `json:"holder"`
	Ticket    *Ticket    `json:"ticket,omitempty"`
	Workshops []Workshop `json:"workshops"`
}

// DashboardStats summarises sales and workshop load.
type DashboardStats struct {
	TicketsSold  int   `json:"tickets_sold"`
	Revenue      Money `json:"revenue"`
	WorkshopLoad int   `json:"workshop_load_percent"`
}

// SalesLine is one ticket in a sales report.
type SalesLine struct {
	TicketID string     `json:"ticket_id"`
	Type     TicketType `json:"type"`
	Price    Money      `json:"price"`
}

// SalesReport lists the tickets purchased on one day.
type SalesReport struct {
	Date           string      `json:"date"`
	Transactions   int         `json:"transactions"`
	Revenue        Money       `json:"revenue"`
	StandardPasses int         `json:"standard_passes"`
	AllAccess      int         `json:"all_access_passes"`
	Lines          []SalesLine `json:"lines"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
