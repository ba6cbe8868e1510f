// Development stub for the order service. Serves the full order
// collection on port 8083; the BFF filters client-side.
package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type Order struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	ProductID  *int64  `json:"productId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
	OrderDate  string  `json:"orderDate"`
}

func main() {
	one, two := int64(1), int64(2)
	orders := []Order{
		{ID: 101, Username: "alice", ProductID: &one, Quantity: 1, TotalPrice: 49999, OrderDate: "2021-03-16"},
		{ID: 102, Username: "alice", ProductID: &two, Quantity: 2, TotalPrice: 179998, OrderDate: "2021-04-02"},
		{ID: 103, Username: "bob", ProductID: &one, Quantity: 1, TotalPrice: 49999, OrderDate: "2021-04-10"},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(orders); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	log.Println("Order service stub listening on :8083")
	if err := http.ListenAndServe(":8083", mux); err != nil {
		log.Fatal(err)
	}
}
