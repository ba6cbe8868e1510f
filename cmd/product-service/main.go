// Development stub for the product service. Serves the CRUD contract
// the storefront BFF expects on port 8082, backed by memory.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
)

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

type store struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]Product
}

func main() {
	s := &store{
		nextID: 3,
		products: map[int64]Product{
			1: {ID: 1, Name: "Phone", Description: "Flagship phone", Price: 49999, Quantity: 10, Category: "Electronics"},
			2: {ID: 2, Name: "Laptop", Description: "Thin and light", Price: 89999, Quantity: 5, Category: "Electronics"},
		},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := make([]Product, 0, len(s.products))
		for _, p := range s.products {
			list = append(list, p)
		}
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		s.mu.Lock()
		defer s.mu.Unlock()
		p, ok := s.products[id]
		if !ok {
			http.Error(w, `{"error": "product not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		var p Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		p.ID = s.nextID
		s.nextID++
		s.products[p.ID] = p
		writeJSON(w, http.StatusCreated, p)
	})

	mux.HandleFunc("PUT /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var p Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.products[id]; !ok {
			http.Error(w, `{"error": "product not found"}`, http.StatusNotFound)
			return
		}
		p.ID = id
		s.products[id] = p
		writeJSON(w, http.StatusOK, p)
	})

	log.Println("Product service stub listening on :8082")
	if err := http.ListenAndServe(":8082", mux); err != nil {
		log.Fatal(err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}
