package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabmartin/plantlibrary/internal/model"
)

// catalogTestServer signs up a user so catalog pages are reachable
func catalogTestServer(t *testing.T) *webTestServer {
	t.Helper()
	ts := newWebTestServer(t)
	ts.signUp("gardener@example.com", "password123")
	return ts
}

func (ts *webTestServer) createGreenhouse(name, location string) *model.Greenhouse {
	ts.t.Helper()
	form := url.Values{"name": {name}, "location": {location}}
	rr := ts.post("/catalog/greenhouse/create", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)

	greenhouses, err := ts.app.CatalogService.ListGreenhouses(ts.t.Context())
	require.NoError(ts.t, err)
	for _, gh := range greenhouses {
		if gh.Name == name {
			return gh
		}
	}
	ts.t.Fatalf("greenhouse %q not created", name)
	return nil
}

func TestCatalogHomeCounts(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")

	plant, err := ts.app.CatalogService.CreatePlant(t.Context(), "Monstera", gh.ID, 29.50, nil)
	require.NoError(t, err)
	_, err = ts.app.CatalogService.CreatePlantInstance(t.Context(), plant.ID, "MD-001", model.StatusAvailable)
	require.NoError(t, err)
	_, err = ts.app.CatalogService.CreatePlantInstance(t.Context(), plant.ID, "MD-002", model.StatusReserved)
	require.NoError(t, err)

	doc := parseHTML(t, ts.get("/catalog"))
	assert.Equal(t, "1", doc.Find("#plant-count").Text())
	assert.Equal(t, "2", doc.Find("#instance-count").Text())
	assert.Equal(t, "1", doc.Find("#available-count").Text())
	assert.Equal(t, "1", doc.Find("#greenhouse-count").Text())
	assert.Equal(t, "0", doc.Find("#type-count").Text())
}

func TestGreenhouseCreateAndList(t *testing.T) {
	ts := catalogTestServer(t)
	ts.createGreenhouse("Tropical House", "north")

	doc := parseHTML(t, ts.get("/catalog/greenhouses"))
	list := doc.Find(".entity-list").Text()
	assert.Contains(t, list, "Tropical House")
	assert.Contains(t, list, "north")
}

func TestGreenhouseCreateValidation(t *testing.T) {
	ts := catalogTestServer(t)

	form := url.Values{"name": {""}, "location": {"north"}}
	rr := ts.post("/catalog/greenhouse/create", form)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Find(".errors").Text(), "Name is required")
	// The submitted location survives the round trip
	location, _ := doc.Find(`input[name="location"]`).Attr("value")
	assert.Equal(t, "north", location)
}

func TestGreenhouseUpdate(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")

	form := url.Values{"name": {"Fernery"}, "location": {"east annex"}}
	rr := ts.post("/catalog/greenhouse/"+string(gh.ID)+"/update", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Contains(t, doc.Find("h1").Text(), "Fernery")
}

func TestGreenhouseDeleteBlockedByPlants(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	_, err := ts.app.CatalogService.CreatePlant(t.Context(), "Monstera", gh.ID, 29.50, nil)
	require.NoError(t, err)

	rr := ts.post("/catalog/greenhouse/"+string(gh.ID)+"/delete", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// The delete page lists the blocking plants instead of deleting
	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Find(".blocked").Text(), "Delete the following plants")
	assert.Contains(t, doc.Find(".entity-list").Text(), "Monstera")

	_, err = ts.app.CatalogService.GetGreenhouse(t.Context(), gh.ID)
	assert.NoError(t, err, "greenhouse must survive a blocked delete")
}

func TestGreenhouseDelete(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")

	rr := ts.post("/catalog/greenhouse/"+string(gh.ID)+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/catalog/greenhouses", rr.Header().Get("Location"))

	_, err := ts.app.CatalogService.GetGreenhouse(t.Context(), gh.ID)
	assert.ErrorIs(t, err, model.ErrGreenhouseNotFound)
}

func TestGreenhouseDetailNotFound(t *testing.T) {
	ts := catalogTestServer(t)

	rr := ts.get("/catalog/greenhouse/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlantCreateThroughForm(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	fern, err := ts.app.CatalogService.CreatePlantType(t.Context(), "Fern")
	require.NoError(t, err)

	form := url.Values{
		"name":       {"Boston fern"},
		"greenhouse": {string(gh.ID)},
		"price":      {"12.25"},
		"types":      {string(fern.ID)},
	}
	rr := ts.post("/catalog/plant/create", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Contains(t, doc.Find("h1").Text(), "Boston fern")
	assert.Contains(t, doc.Find("dd").Text(), "12.25")
	assert.Contains(t, doc.Find("dd").Text(), "Fern")
}

func TestPlantCreateRejectsBadPrice(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")

	form := url.Values{
		"name":       {"Boston fern"},
		"greenhouse": {string(gh.ID)},
		"price":      {"-5"},
	}
	rr := ts.post("/catalog/plant/create", form)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Find(".errors").Text(), "Price must be a non-negative number")
}

func TestPlantUpdateFormPreselectsTypes(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	fern, err := ts.app.CatalogService.CreatePlantType(t.Context(), "Fern")
	require.NoError(t, err)
	_, err = ts.app.CatalogService.CreatePlantType(t.Context(), "Succulent")
	require.NoError(t, err)
	plant, err := ts.app.CatalogService.CreatePlant(t.Context(), "Boston fern", gh.ID, 12.25, []model.PlantTypeID{fern.ID})
	require.NoError(t, err)

	doc := parseHTML(t, ts.get("/catalog/plant/"+string(plant.ID)+"/update"))

	checked := doc.Find(`input[name="types"][checked]`)
	require.Equal(t, 1, checked.Length())
	val, _ := checked.Attr("value")
	assert.Equal(t, string(fern.ID), val)
}

func TestPlantTypeDeleteBlockedWhileInUse(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	fern, err := ts.app.CatalogService.CreatePlantType(t.Context(), "Fern")
	require.NoError(t, err)
	_, err = ts.app.CatalogService.CreatePlant(t.Context(), "Boston fern", gh.ID, 12.25, []model.PlantTypeID{fern.ID})
	require.NoError(t, err)

	rr := ts.post("/catalog/type/"+string(fern.ID)+"/delete", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Find(".entity-list").Text(), "Boston fern")

	_, err = ts.app.CatalogService.GetPlantType(t.Context(), fern.ID)
	assert.NoError(t, err)
}

func TestInstanceLifecycle(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	plant, err := ts.app.CatalogService.CreatePlant(t.Context(), "Monstera", gh.ID, 29.50, nil)
	require.NoError(t, err)

	// Create through the form with an explicit status
	form := url.Values{
		"plant":   {string(plant.ID)},
		"imprint": {"MD-001"},
		"status":  {"Available"},
	}
	rr := ts.post("/catalog/plantinstance/create", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.followRedirect(rr))
	assert.Contains(t, doc.Find("h1").Text(), "MD-001")

	instances, err := ts.app.CatalogService.InstancesOfPlant(t.Context(), plant.ID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, model.StatusAvailable, instances[0].Status)

	// Delete through the form; instances have no dependents
	rr = ts.post("/catalog/plantinstance/"+string(instances[0].ID)+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	instances, err = ts.app.CatalogService.InstancesOfPlant(t.Context(), plant.ID)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestInstanceCreateRejectsInvalidStatus(t *testing.T) {
	ts := catalogTestServer(t)
	gh := ts.createGreenhouse("Tropical House", "north")
	plant, err := ts.app.CatalogService.CreatePlant(t.Context(), "Monstera", gh.ID, 29.50, nil)
	require.NoError(t, err)

	form := url.Values{
		"plant":   {string(plant.ID)},
		"imprint": {"MD-001"},
		"status":  {"bogus"},
	}
	rr := ts.post("/catalog/plantinstance/create", form)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Find(".errors").Text(), "Status is not valid")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newWebTestServer(t)

	// Generate some traffic so the request counter has observations
	ts.get("/signin")

	rr := ts.get("/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}
