package bookings

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func bindCreateBooking(t *testing.T, passenger string) (CreateBookingRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	body := fmt.Sprintf(`{"departure_id":%q,"customer_id":%q,"passengers":[%s]}`,
		uuid.NewString(), uuid.NewString(), passenger)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateBookingRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestCreateBookingRequestRoomPreference(t *testing.T) {
	customer := uuid.NewString()
	cases := []struct {
		name      string
		passenger string
		wantErr   bool
	}{
		{"omitted", fmt.Sprintf(`{"customer_id":%q}`, customer), false},
		{"double", fmt.Sprintf(`{"customer_id":%q,"room_preference":"double"}`, customer), false},
		{"unknown", fmt.Sprintf(`{"customer_id":%q,"room_preference":"suite"}`, customer), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := bindCreateBooking(t, tc.passenger)
			if (err != nil) != tc.wantErr {
				t.Fatalf("bind error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.name == "omitted" && req.Passengers[0].RoomPreference != "" {
				t.Fatalf("omitted preference should bind empty, got %q", req.Passengers[0].RoomPreference)
			}
		})
	}
}
