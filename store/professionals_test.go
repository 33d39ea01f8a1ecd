package store

import (
	"fmt"
	"testing"

	"household-services-client/models"
)

func ratingOf(v float64) *float64 {
	return &v
}

func TestTopRatedOrdering(t *testing.T) {
	st, srv := newTestStore(t)
	service := srv.SeedService("Plumbing", "Pipes", 800, "repair")

	srv.SeedProfessional("amir", service.ID, 2, ratingOf(3))
	srv.SeedProfessional("bela", service.ID, 4, ratingOf(5))
	srv.SeedProfessional("chitra", service.ID, 1, nil)
	srv.SeedProfessional("dev", service.ID, 7, ratingOf(5))
	srv.SeedProfessional("esha", service.ID, 3, ratingOf(4))

	if _, err := st.Professionals.FetchProfessionals(models.ProfessionalFilters{}); err != nil {
		t.Fatalf("FetchProfessionals: %v", err)
	}

	top := st.Professionals.TopRated()
	want := []string{"bela", "dev", "esha", "amir"}
	if len(top) != len(want) {
		t.Fatalf("expected %d rated professionals, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, top[i].Name)
		}
	}
}

func TestTopRatedCapsAtFive(t *testing.T) {
	st, srv := newTestStore(t)
	service := srv.SeedService("Cleaning", "Deep clean", 1500, "cleaning")

	for i := 0; i < 7; i++ {
		srv.SeedProfessional(fmt.Sprintf("pro-%d", i), service.ID, i, ratingOf(float64(i%5)+1))
	}

	if _, err := st.Professionals.FetchProfessionals(models.ProfessionalFilters{}); err != nil {
		t.Fatalf("FetchProfessionals: %v", err)
	}
	if got := len(st.Professionals.TopRated()); got != 5 {
		t.Fatalf("expected top rated to cap at 5, got %d", got)
	}
}

func TestFetchProfessionalsScope(t *testing.T) {
	st, srv := newTestStore(t)
	service := srv.SeedService("Electrical", "Wiring", 1200, "repair")
	srv.SeedProfessional("farah", service.ID, 5, ratingOf(4.5))
	srv.SeedProfessional("gopal", service.ID, 2, nil)

	// One more professional registers and stays pending.
	if err := st.Auth.RegisterProfessional(map[string]string{
		"username":   "hema",
		"email":      "hema@example.com",
		"password":   "secret",
		"service_id": fmt.Sprint(service.ID),
		"experience": "3",
	}); err != nil {
		t.Fatalf("RegisterProfessional: %v", err)
	}

	// Customer scope only sees approved professionals.
	listed, err := st.Professionals.FetchProfessionals(models.ProfessionalFilters{})
	if err != nil {
		t.Fatalf("FetchProfessionals: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 approved professionals, got %d", len(listed))
	}

	// Admin scope sees everyone, pending included.
	admin := srv.SeedAdmin("admin", "admin123")
	st.Client().SetToken(srv.TokenFor(admin))
	st.Professionals.SetAdminContext(true)

	listed, err = st.Professionals.FetchProfessionals(models.ProfessionalFilters{})
	if err != nil {
		t.Fatalf("FetchProfessionals (admin): %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 professionals in admin scope, got %d", len(listed))
	}
}

func TestProfessionalFiltersAndSelection(t *testing.T) {
	st, srv := newTestStore(t)
	plumbing := srv.SeedService("Plumbing", "Pipes", 800, "repair")
	cleaning := srv.SeedService("Cleaning", "Deep clean", 1500, "cleaning")
	first, _ := srv.SeedProfessional("irfan", plumbing.ID, 6, ratingOf(4.2))
	srv.SeedProfessional("jaya", cleaning.ID, 2, ratingOf(3.9))

	if _, err := st.Professionals.FetchProfessionals(models.ProfessionalFilters{}); err != nil {
		t.Fatalf("FetchProfessionals: %v", err)
	}

	st.Professionals.Filter(models.ProfessionalFilters{MinExperience: 5})
	filtered := st.Professionals.Filtered()
	if len(filtered) != 1 || filtered[0].Name != "irfan" {
		t.Fatalf("expected only irfan with 5+ years, got %+v", filtered)
	}

	st.Professionals.ClearFilters()
	if got := len(st.Professionals.Filtered()); got != 2 {
		t.Fatalf("expected cleared filters to match everything, got %d", got)
	}

	byService := st.Professionals.ProfessionalsByService(plumbing.ID)
	if len(byService) != 1 || byService[0].ID != first.ID {
		t.Fatalf("expected irfan for plumbing, got %+v", byService)
	}

	st.Professionals.SelectProfessional(first.ID)
	sel := st.Professionals.Selected()
	if sel == nil || sel.ID != first.ID {
		t.Fatalf("expected irfan selected, got %+v", sel)
	}

	// The selection getter hands out a copy.
	sel.Name = "scribbled"
	if again := st.Professionals.Selected(); again.Name != "irfan" {
		t.Fatalf("mutating the Selected result changed the slot: %+v", again)
	}

	st.Professionals.SelectProfessional(9999)
	if st.Professionals.Selected() != nil {
		t.Fatal("expected unknown id to clear the selection")
	}
}
