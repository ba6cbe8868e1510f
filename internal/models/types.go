package models

// Product is the product service's resource. Price is in major
// currency units, as the backend stores it.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

// Order is the order service's resource. The backend is inconsistent
// about field names, so both spellings are decoded and the accessors
// pick whichever is set.
type Order struct {
	ID         int64   `json:"id,omitempty"`
	OrderID    int64   `json:"orderId,omitempty"`
	Username   string  `json:"username"`
	ProductID  *int64  `json:"productId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice,omitempty"`
	Price      float64 `json:"price,omitempty"`
	OrderDate  string  `json:"orderDate,omitempty"`
	Date       string  `json:"date,omitempty"`
}

// Key returns the order's identifier under either field name.
func (o Order) Key() int64 {
	if o.ID != 0 {
		return o.ID
	}
	return o.OrderID
}

// Amount returns the order's price under either field name.
func (o Order) Amount() float64 {
	if o.TotalPrice != 0 {
		return o.TotalPrice
	}
	return o.Price
}

// PlacedAt returns the recorded order date under either field name;
// empty means the backend recorded none.
func (o Order) PlacedAt() string {
	if o.OrderDate != "" {
		return o.OrderDate
	}
	return o.Date
}

// ProductForm carries the product form fields as submitted: numeric
// fields arrive as text and are coerced after validation.
type ProductForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Quantity    string `json:"quantity" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// SignupForm is forwarded verbatim to the auth service. The password
// travels in the clear inside the request body; that is the upstream
// contract, not a security property.
type SignupForm struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// HistoryRow pairs an order with its product for display. Product is a
// zero-value placeholder when the catalog lookup misses.
type HistoryRow struct {
	Order        Order   `json:"order"`
	Product      Product `json:"product"`
	DeliveryDate string  `json:"deliveryDate"`
}

// HistoryResponse is the assembled order-history view.
type HistoryResponse struct {
	Username string       `json:"username"`
	Rows     []HistoryRow `json:"rows"`
}
