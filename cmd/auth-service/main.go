// Development stub for the auth service. Accepts signups on port 8087.
package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
			http.Error(w, `{"error": "all fields are required"}`, http.StatusBadRequest)
			return
		}

		log.Printf("Registered user %s", req.Username)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]string{"username": req.Username}); err != nil {
			log.Printf("encode response: %v", err)
		}
	})

	log.Println("Auth service stub listening on :8087")
	if err := http.ListenAndServe(":8087", mux); err != nil {
		log.Fatal(err)
	}
}
