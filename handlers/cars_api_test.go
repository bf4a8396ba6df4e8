package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"car-rental-api/models"
)

func TestCreateCarKindExclusivity(t *testing.T) {
	r := setupServer(t)
	_, dealerToken := createUser(t, "dealer1", models.RoleDealer)

	// Rent listing with a daily rate.
	w := doJSON(t, r, http.MethodPost, "/api/cars", dealerToken, map[string]interface{}{
		"brand":       "Toyota",
		"model":       "Corolla",
		"year":        2021,
		"kind":        "rent",
		"pricePerDay": 15,
		"images":      []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
	})
	wantStatus(t, w, http.StatusCreated)
	car := decodeBody(t, w)["car"].(map[string]interface{})
	if got := car["availability"].(string); got != string(models.CarAvailable) {
		t.Fatalf("new rent listing must start available, got %q", got)
	}
	if images := car["images"].([]interface{}); len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}

	// Sale listing with a sale price.
	w = doJSON(t, r, http.MethodPost, "/api/cars", dealerToken, map[string]interface{}{
		"brand":     "Nissan",
		"model":     "Patrol",
		"year":      2018,
		"kind":      "sale",
		"salePrice": 9000,
	})
	wantStatus(t, w, http.StatusCreated)

	// Kind-exclusive fields are rejected, not dropped.
	invalid := []map[string]interface{}{
		{"brand": "A", "model": "B", "year": 2020, "kind": "rent", "salePrice": 1000},
		{"brand": "A", "model": "B", "year": 2020, "kind": "sale", "pricePerDay": 10},
		{"brand": "A", "model": "B", "year": 2020, "kind": "rent"},           // missing rate
		{"brand": "A", "model": "B", "year": 2020, "kind": "lease", "pricePerDay": 10}, // unknown kind
	}
	for i, body := range invalid {
		w = doJSON(t, r, http.MethodPost, "/api/cars", dealerToken, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("case %d: expected 400 got %d: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestUpdateCarRestrictions(t *testing.T) {
	r := setupServer(t)
	dealer, dealerToken := createUser(t, "dealer1", models.RoleDealer)
	_, otherToken := createUser(t, "dealer2", models.RoleDealer)
	car := createRentCar(t, dealer.ID, 10)

	// Not the owner.
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), otherToken,
		map[string]interface{}{"location": "Manama"})
	wantStatus(t, w, http.StatusForbidden)

	// Sale price on a rent listing.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"salePrice": 9000})
	wantStatus(t, w, http.StatusUnprocessableEntity)

	// Availability is derived and not directly settable.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"availability": "rented"})
	wantStatus(t, w, http.StatusBadRequest)
	if got := reloadCar(t, car.ID).Availability; got != models.CarAvailable {
		t.Fatalf("availability must be untouched, got %s", got)
	}

	// Out-of-range values are rejected just like on creation.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"pricePerDay": -5})
	wantStatus(t, w, http.StatusUnprocessableEntity)
	if got := reloadCar(t, car.ID).PricePerDay; got != 10 {
		t.Fatalf("rate must be untouched after rejected update, got %v", got)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"year": 1890})
	wantStatus(t, w, http.StatusUnprocessableEntity)

	// Wrongly typed values are a malformed request, not a 500.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"year": "new"})
	wantStatus(t, w, http.StatusBadRequest)

	// A normal update works.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken,
		map[string]interface{}{"location": "Manama", "pricePerDay": 18})
	wantStatus(t, w, http.StatusOK)
	updated := reloadCar(t, car.ID)
	if updated.Location != "Manama" || updated.PricePerDay != 18 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteCarWithActiveRental(t *testing.T) {
	r := setupServer(t)
	dealer, dealerToken := createUser(t, "dealer1", models.RoleDealer)
	_, userToken := createUser(t, "renter1", models.RoleUser)
	car := createRentCar(t, dealer.ID, 10)

	submitRental(t, r, car.ID, userToken)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cars/%d", car.ID), dealerToken, nil)
	wantStatus(t, w, http.StatusConflict)
}

func TestPublicListingFiltersAndSort(t *testing.T) {
	r := setupServer(t)
	dealer, _ := createUser(t, "dealer1", models.RoleDealer)

	cheap := createRentCar(t, dealer.ID, 8)
	createRentCar(t, dealer.ID, 30)
	sale := createSaleCar(t, dealer.ID, 9000)

	w := doJSON(t, r, http.MethodGet, "/api/cars", "", nil)
	wantStatus(t, w, http.StatusOK)
	if got := decodeBody(t, w)["count"].(float64); got != 3 {
		t.Fatalf("expected 3 cars, got %v", got)
	}

	w = doJSON(t, r, http.MethodGet, "/api/cars?kind=sale", "", nil)
	wantStatus(t, w, http.StatusOK)
	resp := decodeBody(t, w)
	if got := resp["count"].(float64); got != 1 {
		t.Fatalf("expected 1 sale car, got %v", got)
	}
	car := resp["cars"].([]interface{})[0].(map[string]interface{})
	if got := uint(car["id"].(float64)); got != sale.ID {
		t.Fatalf("expected sale car %d, got %d", sale.ID, got)
	}

	w = doJSON(t, r, http.MethodGet, "/api/cars?sort=price_asc", "", nil)
	wantStatus(t, w, http.StatusOK)
	cars := decodeBody(t, w)["cars"].([]interface{})
	first := cars[0].(map[string]interface{})
	if got := uint(first["id"].(float64)); got != cheap.ID {
		t.Fatalf("expected cheapest car first, got %d", got)
	}

	w = doJSON(t, r, http.MethodGet, "/api/cars?search=patrol", "", nil)
	wantStatus(t, w, http.StatusOK)
	if got := decodeBody(t, w)["count"].(float64); got != 1 {
		t.Fatalf("expected 1 match for patrol, got %v", got)
	}
}

func TestGetCarEtag(t *testing.T) {
	r := setupServer(t)
	dealer, _ := createUser(t, "dealer1", models.RoleDealer)
	car := createRentCar(t, dealer.ID, 10)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/cars/%d", car.ID), "", nil)
	wantStatus(t, w, http.StatusOK)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/cars/%d", car.ID), nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for matching ETag, got %d", rec.Code)
	}
}

func TestReviews(t *testing.T) {
	r := setupServer(t)
	dealer, _ := createUser(t, "dealer1", models.RoleDealer)
	_, authorToken := createUser(t, "author", models.RoleUser)
	_, strangerToken := createUser(t, "stranger", models.RoleUser)
	_, adminToken := createUser(t, "admin", models.RoleAdmin)
	car := createRentCar(t, dealer.ID, 10)

	// Rating bounds are enforced.
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/cars/%d/reviews", car.ID), authorToken,
		map[string]interface{}{"rating": 6, "comment": "too good"})
	wantStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/cars/%d/reviews", car.ID), authorToken,
		map[string]interface{}{"rating": 4, "comment": "smooth ride"})
	wantStatus(t, w, http.StatusCreated)
	reviews := decodeBody(t, w)["car"].(map[string]interface{})["reviews"].([]interface{})
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	reviewID := uint(reviews[0].(map[string]interface{})["id"].(float64))

	// Only the author or an admin may delete.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cars/%d/reviews/%d", car.ID, reviewID), strangerToken, nil)
	wantStatus(t, w, http.StatusForbidden)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/cars/%d/reviews/%d", car.ID, reviewID), adminToken, nil)
	wantStatus(t, w, http.StatusOK)
}
