// Package store implements the client-side state layer of the A-Z
// Household Services application: per-entity caches with derived
// filtered views, the service-request lifecycle controller, export job
// tracking and a root-level notification broadcaster.
//
// Unless noted otherwise the stores apply no mutual exclusion: callers
// are expected to drive them from a single goroutine, and overlapping
// fetches resolve last-writer-wins, mirroring the cooperative scheduling
// model of the browser client this layer stands in for.
package store

import (
	"household-services-client/api"
	"household-services-client/config"
)

// Store is the root state container. It owns every substore and the
// notification broadcaster; consumers receive it by injection rather
// than through a package-level singleton.
type Store struct {
	Notifier      *Notifier
	Auth          *AuthStore
	Services      *ServicesStore
	Professionals *ProfessionalsStore
	Requests      *ServiceRequestsStore
	Admin         *AdminStore
	Reports       *ReportsStore

	client *api.Client
}

// New wires the substores around one shared API client. A 401 from any
// request tears the session down and surfaces a notification before the
// failing call returns.
func New(cfg *config.Config, client *api.Client) *Store {
	notifier := NewNotifier()
	auth := NewAuthStore(cfg, client, notifier)

	client.OnUnauthorized = func() {
		auth.clearSession()
		notifier.Error("Your session has expired. Please log in again.")
	}

	return &Store{
		Notifier:      notifier,
		Auth:          auth,
		Services:      NewServicesStore(client, notifier),
		Professionals: NewProfessionalsStore(client, notifier),
		Requests:      NewServiceRequestsStore(client, notifier),
		Admin:         NewAdminStore(client),
		Reports:       NewReportsStore(client, notifier),
		client:        client,
	}
}

// Client exposes the underlying API client, mainly for wiring jobs.
func (s *Store) Client() *api.Client {
	return s.client
}
