// Event API tests in Argus.

package event

import (
	"Argus/internal/entity"
	"Argus/internal/test"
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Global instance of gin MockRouter to be used during event API testing.
var mockRouter *gin.Engine

// Helper to build up a mock router instance for testing Argus.
func setupMockRouter() Service {
	service, _, _, _ := setupService()
	mockRouter = test.MockRouter()
	APIHandlers(mockRouter, service, test.MockAuthMiddleware(logger), logger)
	return service
}

// Cookies which pass the mock auth middleware as user u1.
func testCookies() []*http.Cookie {
	return []*http.Cookie{
		test.MockAuthAllowCookie,
		{Name: "user", Value: "u1", HttpOnly: true},
	}
}

func TestEventAPIScenario(t *testing.T) {
	service := setupMockRouter()

	// Requests without the auth bypass cookie are rejected
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/events",
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusUnauthorized},
	})

	// Ingest a valid event
	body, _ := json.Marshal(entity.Event{
		Type:       entity.EventTypeFaceDetected,
		CameraID:   "cam-1",
		Message:    "Face detected in camera feed",
		Confidence: 0.87,
	})
	w := test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/api/events",
		Body:         bytes.NewReader(body),
		WantResponse: []int{http.StatusCreated},
		Cookie:       testCookies(),
	})
	var created struct {
		Event entity.Event `json:"event"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Event.ID)

	// Malformed ingestion payloads are rejected at the boundary
	badBody, _ := json.Marshal(entity.Event{Type: "meteor_strike", CameraID: "cam-1", Message: "m"})
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodPost,
		Path:         "/api/events",
		Body:         bytes.NewReader(badBody),
		WantResponse: []int{http.StatusBadRequest},
		Cookie:       testCookies(),
	})

	// The listing includes the stored event with the original filter surface
	w = test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/events?cameraId=cam-1&page=1&limit=20",
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusOK},
		Cookie:       testCookies(),
	})
	var listing struct {
		Events     []entity.Event    `json:"events"`
		Pagination entity.Pagination `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Events, 1)
	assert.Equal(t, int64(1), listing.Pagination.Total)
	assert.False(t, listing.Pagination.HasNext)

	// Single event fetch, hit and miss
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/events/" + created.Event.ID,
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusOK},
		Cookie:       testCookies(),
	})
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/events/no-such-event",
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusNotFound},
		Cookie:       testCookies(),
	})

	// Aggregate summary reflects the single stored event
	w = test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodGet,
		Path:         "/api/stats/summary",
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusOK},
		Cookie:       testCookies(),
	})
	var summary struct {
		Stats entity.EventSummary `json:"stats"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.Stats.Total)
	assert.Equal(t, int64(1), summary.Stats.ByType[entity.EventTypeFaceDetected])

	// Administrative delete, then the event is gone
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodDelete,
		Path:         "/api/events/" + created.Event.ID,
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusOK},
		Cookie:       testCookies(),
	})
	test.ExecuteAPITest(logger, t, mockRouter, test.RequestAPITest{
		Method:       http.MethodDelete,
		Path:         "/api/events/" + created.Event.ID,
		Body:         bytes.NewReader([]byte{}),
		WantResponse: []int{http.StatusNotFound},
		Cookie:       testCookies(),
	})
	_, geterr := service.Get(ctx, created.Event.ID)
	assert.Error(t, geterr)
}
