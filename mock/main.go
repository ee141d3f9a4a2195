package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	http.HandleFunc("/oauth/authorize", AuthorizeHandler)
	http.HandleFunc("/oauth/token", TokenHandler)
	http.HandleFunc("/api/user", UserHandler)
	http.HandleFunc("/api/user/emails", UserEmailsHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock OAuth2 provider running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
