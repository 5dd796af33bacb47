// server_test.go
//
// Room scanning and affiliate product recommendation data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of roomscan-api.
// roomscan-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// roomscan-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with roomscan-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/localnerve/roomscan-api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, opts Options) *fiber.App {
	t.Helper()

	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	cfg := &config.Config{
		CORSOrigins: "*",
		DBType:      "sqlite-pure",
		DBDatabase:  "test",
	}
	return New(cfg, db, zap.NewNop(), opts)
}

// do sends a request with an optional JSON body and decodes the JSON response into out
func do(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response of %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestRoomLifecycle(t *testing.T) {
	app := setupTestApp(t, Options{})

	var room map[string]interface{}
	status := do(t, app, "POST", "/api/rooms", map[string]interface{}{
		"name":      "Garage",
		"room_type": "garage",
		"items": []map[string]interface{}{
			{"name": "Shelf", "category": "storage"},
			{"name": "Cabinet", "category": "storage"},
			{"name": "Bike", "category": "misc"},
			{"name": "Toolbox", "category": "misc"},
		},
	}, &room)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Garage", room["name"])
	assert.Len(t, room["items"], 4)
	id := uint64(room["id"].(float64))

	var suggestions []map[string]interface{}
	status = do(t, app, "GET", fmt.Sprintf("/api/rooms/%d/suggestions", id), nil, &suggestions)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "storage", suggestions[0]["suggestion_type"])
	assert.Equal(t, float64(1), suggestions[0]["priority"])
	assert.Equal(t, "lighting", suggestions[1]["suggestion_type"])
	assert.Equal(t, float64(3), suggestions[1]["priority"])

	var implemented map[string]interface{}
	path := fmt.Sprintf("/api/rooms/%d/suggestions/%v/implement", id, suggestions[0]["id"])
	require.Equal(t, http.StatusOK, do(t, app, "POST", path, nil, &implemented))
	assert.Equal(t, true, implemented["is_implemented"])

	var updated map[string]interface{}
	status = do(t, app, "PUT", fmt.Sprintf("/api/rooms/%d", id), map[string]interface{}{"name": "Workshop"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Workshop", updated["name"])
	assert.Equal(t, float64(1), updated["version"])

	var conflict map[string]interface{}
	status = do(t, app, "PUT", fmt.Sprintf("/api/rooms/%d", id), map[string]interface{}{"name": "Stale", "version": 0}, &conflict)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, true, conflict["versionError"])
	assert.Equal(t, false, conflict["ok"])

	var rooms []map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/rooms", nil, &rooms))
	assert.Len(t, rooms, 1)

	var deleted map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "DELETE", fmt.Sprintf("/api/rooms/%d", id), nil, &deleted))
	assert.Equal(t, "Room deleted successfully", deleted["message"])

	var missing map[string]interface{}
	assert.Equal(t, http.StatusNotFound, do(t, app, "GET", fmt.Sprintf("/api/rooms/%d", id), nil, &missing))
	assert.NotEmpty(t, missing["error"])
	assert.Equal(t, http.StatusNotFound, do(t, app, "GET", fmt.Sprintf("/api/rooms/%d/suggestions", id), nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, app, "DELETE", fmt.Sprintf("/api/rooms/%d", id), nil, nil))
}

func TestRoomRepresentation(t *testing.T) {
	app := setupTestApp(t, Options{})

	var created map[string]interface{}
	require.Equal(t, http.StatusCreated, do(t, app, "POST", "/api/rooms", map[string]interface{}{
		"name":  "Den",
		"items": []map[string]interface{}{{"name": "Sofa", "category": "furniture"}},
	}, &created))
	id := uint64(created["id"].(float64))

	var fetched, updated map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", fmt.Sprintf("/api/rooms/%d", id), nil, &fetched))
	require.Equal(t, http.StatusOK, do(t, app, "PUT", fmt.Sprintf("/api/rooms/%d", id), map[string]interface{}{"name": "Study"}, &updated))

	assert.NotContains(t, created, "suggestions")
	assert.ElementsMatch(t, keys(created), keys(fetched))
	assert.ElementsMatch(t, keys(created), keys(updated))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCreateRoomLenientBody(t *testing.T) {
	app := setupTestApp(t, Options{})

	// a single item object and a string user id are accepted
	var room map[string]interface{}
	status := do(t, app, "POST", "/api/rooms",
		`{"user_id":"7","items":{"name":"Lamp","category":"lighting"}}`, &room)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Untitled Room", room["name"])
	assert.Equal(t, float64(7), room["user_id"])
	assert.Len(t, room["items"], 1)

	var rooms []map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/rooms?user_id=7", nil, &rooms))
	assert.Len(t, rooms, 1)
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/rooms", nil, &rooms))
	assert.Empty(t, rooms)
}

func TestBadRequests(t *testing.T) {
	app := setupTestApp(t, Options{})

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"POST", "/api/rooms", `{"items":[{"category":"storage"}]}`},
		{"POST", "/api/rooms", `{"name":`},
		{"GET", "/api/rooms?user_id=abc", nil},
		{"GET", "/api/rooms/abc", nil},
		{"GET", "/api/products?limit=-1", nil},
		{"GET", "/api/products?limit=ten", nil},
		{"GET", "/api/products?limit=10000000000", nil},
		{"GET", "/api/products?room_id=x", nil},
		{"POST", "/api/products/1/click", `{"user_id":"nope"}`},
		{"GET", "/api/analytics/clicks?days=0", nil},
		{"GET", "/api/analytics/summary?days=-3", nil},
		{"POST", "/api/analytics/activity", `{}`},
		{"POST", "/api/analytics/metrics", `{"metric_name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body map[string]interface{}
			status := do(t, app, tt.method, tt.path, tt.body, &body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, false, body["ok"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestProductsAndClicks(t *testing.T) {
	app := setupTestApp(t, Options{})

	var seeded map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "POST", "/api/products/seed", nil, &seeded))
	assert.Equal(t, float64(4), seeded["inserted"])
	require.Equal(t, http.StatusOK, do(t, app, "POST", "/api/products/seed", nil, &seeded))
	assert.Equal(t, float64(0), seeded["inserted"])

	var products []map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/products", nil, &products))
	assert.Len(t, products, 4)
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/products?category=storage&limit=2", nil, &products))
	require.Len(t, products, 2)
	assert.Equal(t, "IKEA ALGOT Storage System", products[0]["name"])

	var product map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/products/3", nil, &product))
	assert.Equal(t, "furniture", product["category"])
	assert.IsType(t, []interface{}{}, product["features"])
	assert.Equal(t, http.StatusNotFound, do(t, app, "GET", "/api/products/999", nil, nil))

	var click map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "POST", "/api/products/4/click", map[string]interface{}{"room_id": "2"}, &click))
	assert.Equal(t, true, click["success"])
	assert.Equal(t, "https://amazon.com/dp/B07EXAMPLE?tag=roomscan-20", click["affiliate_link"])
	assert.NotZero(t, click["click_id"])

	require.Equal(t, http.StatusOK, do(t, app, "POST", "/api/products/4/click", nil, &click))
	assert.Equal(t, http.StatusNotFound, do(t, app, "POST", "/api/products/999/click", nil, nil))

	var stats []map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/analytics/clicks", nil, &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "Amazon Basics Storage Bins", stats[0]["product_name"])
	assert.Equal(t, float64(2), stats[0]["click_count"])
}

func TestRoomRecommendations(t *testing.T) {
	app := setupTestApp(t, Options{})

	require.Equal(t, http.StatusOK, do(t, app, "POST", "/api/products/seed", nil, nil))

	var room map[string]interface{}
	require.Equal(t, http.StatusCreated, do(t, app, "POST", "/api/rooms", map[string]interface{}{
		"name": "Garage",
		"items": []map[string]string{
			{"name": "Shelf", "category": "storage"},
			{"name": "Cabinet", "category": "storage"},
			{"name": "Bike", "category": "misc"},
			{"name": "Toolbox", "category": "misc"},
		},
	}, &room))
	id := uint64(room["id"].(float64))

	var recs []map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", fmt.Sprintf("/api/rooms/%d/recommendations", id), nil, &recs))
	require.Len(t, recs, 3)

	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r["name"].(string))
		rec := r["recommendation"].(map[string]interface{})
		assert.Equal(t, 0.9, rec["relevance_score"])
		assert.Equal(t, "Recommended for: Add storage bins for loose items", rec["reason"])
	}
	assert.Equal(t, []string{
		"IKEA ALGOT Storage System",
		"Container Store Elfa Shelving",
		"Amazon Basics Storage Bins",
	}, names)

	var products []map[string]interface{}
	path := fmt.Sprintf("/api/products?room_id=%d", id)
	require.Equal(t, http.StatusOK, do(t, app, "GET", path, nil, &products))
	require.Len(t, products, 4)
	assert.Equal(t, "Wayfair Storage Ottoman", products[3]["name"])

	assert.Equal(t, http.StatusNotFound, do(t, app, "GET", "/api/rooms/999/recommendations", nil, nil))
}

func TestAnalyticsEvents(t *testing.T) {
	app := setupTestApp(t, Options{})

	var activity map[string]interface{}
	status := do(t, app, "POST", "/api/analytics/activity", map[string]interface{}{
		"user_id":       3,
		"activity_type": "app_open",
		"metadata":      map[string]string{"screen": "home"},
	}, &activity)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "app_open", activity["activity_type"])
	assert.Equal(t, map[string]interface{}{"screen": "home"}, activity["metadata"])

	var metric map[string]interface{}
	status = do(t, app, "POST", "/api/analytics/metrics", map[string]interface{}{
		"metric_name":  "scan_duration_ms",
		"metric_value": 1250.5,
	}, &metric)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1250.5, metric["metric_value"])

	var summary map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/analytics/summary?days=7", nil, &summary))
	assert.Equal(t, float64(7), summary["window_days"])
	assert.Equal(t, float64(1), summary["activities"])
	assert.Equal(t, float64(0), summary["rooms_total"])
}

func TestHealth(t *testing.T) {
	app := setupTestApp(t, Options{})

	var health map[string]interface{}
	require.Equal(t, http.StatusOK, do(t, app, "GET", "/api/health", nil, &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "ok", health["database"])
	assert.Equal(t, "disabled", health["authorizer"])
}

func TestNotFoundRoute(t *testing.T) {
	app := setupTestApp(t, Options{})

	var body map[string]interface{}
	assert.Equal(t, http.StatusNotFound, do(t, app, "GET", "/api/nothing", nil, &body))
	assert.Equal(t, "[404] Resource Not Found", body["message"])
	assert.Equal(t, "/api/nothing", body["url"])
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupTestApp(t, Options{})

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", resp.Header.Get("X-Api-Version"))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

type denyAll struct{}

func (denyAll) Enabled() bool { return true }

func (denyAll) ValidateSession(_, _, _ string, _ []string) (map[string]interface{}, error) {
	return nil, errors.New("session expired")
}

func TestAdminRoutesGuarded(t *testing.T) {
	app := setupTestApp(t, Options{Authorizer: denyAll{}})

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/products/seed"},
		{"GET", "/api/analytics/clicks"},
		{"GET", "/api/analytics/summary"},
	} {
		var body map[string]interface{}
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Cookie", "cookie_session=abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, route.path)
		assert.Equal(t, "roomscan.authorization.admin", body["type"])
		assert.Contains(t, body["message"], "session expired")
	}

	// public routes stay open
	assert.Equal(t, http.StatusOK, do(t, app, "GET", "/api/products", nil, nil))
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	var body map[string]interface{}
	assert.Equal(t, http.StatusTeapot, do(t, app, "GET", "/fiber", nil, &body))
	assert.Equal(t, "short and stout", body["error"])

	assert.Equal(t, http.StatusInternalServerError, do(t, app, "GET", "/plain", nil, &body))
	assert.Equal(t, "unknown", body["type"])
	assert.Equal(t, false, body["versionError"])
}
