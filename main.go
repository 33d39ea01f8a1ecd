package main

import (
	"log"
	"net"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"household-services-client/api"
	"household-services-client/config"
	"household-services-client/models"
	"household-services-client/store"
	"household-services-client/testserver"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg := config.Load()
	baseURL := cfg.API.BaseURL

	// DEMO_LOCAL=true runs against an embedded in-memory server instead
	// of a real backend.
	if os.Getenv("DEMO_LOCAL") == "true" {
		local, err := startLocalServer(cfg.JWT.Secret)
		if err != nil {
			log.Fatalf("failed to start local server: %v", err)
		}
		baseURL = local
	}

	client := api.NewClient(baseURL, cfg.API.Timeout)
	st := store.New(cfg, client)

	if user := st.Auth.RestoreSession(); user != nil {
		log.Printf("restored session for %s (%s)", user.Username, user.Role)
	}

	services, err := st.Services.FetchServices()
	if err != nil {
		log.Fatalf("failed to fetch services: %v", err)
	}
	log.Printf("loaded %d services", len(services))
	for _, service := range services {
		log.Printf("  #%d %s (%s) base price %s", service.ID, service.Name, service.Category, service.BasePrice)
	}

	professionals, err := st.Professionals.FetchProfessionals(models.ProfessionalFilters{})
	if err != nil {
		log.Printf("failed to fetch professionals: %v", err)
	} else {
		log.Printf("loaded %d professionals, top rated:", len(professionals))
		for _, p := range st.Professionals.TopRated() {
			if p.AvgRating != nil {
				log.Printf("  %s (%.1f)", p.Name, *p.AvgRating)
			}
		}
	}

	if n := st.Notifier.Current(); n != nil {
		log.Printf("notification: [%s] %s", n.Type, n.Message)
	}
}

// startLocalServer seeds an embedded testserver and serves it on a
// loopback port.
func startLocalServer(jwtSecret string) (string, error) {
	srv := testserver.New(jwtSecret)

	cleaning := srv.SeedService("House Cleaning", "Full house deep cleaning", 1500, "cleaning")
	plumbing := srv.SeedService("Plumbing", "Leak repair and pipe fitting", 800, "repair")
	srv.SeedService("Electrical", "Wiring and appliance installation", 1200, "repair")

	srv.SeedAdmin("admin", "admin123")
	customer, _ := srv.SeedCustomer("asha", "password")

	rating := 4.8
	srv.SeedProfessional("ravi", cleaning.ID, 6, &rating)
	other := 4.2
	srv.SeedProfessional("meera", plumbing.ID, 3, &other)

	srv.SeedRequest(customer.ID, cleaning.ID, models.StatusRequested, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	go func() {
		if err := http.Serve(listener, srv.Router()); err != nil {
			log.Printf("local server stopped: %v", err)
		}
	}()

	url := "http://" + listener.Addr().String()
	log.Printf("local demo server listening on %s", url)
	return url, nil
}
