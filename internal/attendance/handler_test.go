package attendance

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CheckIn(ctx context.Context, memberID int) (*CheckInResponse, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckInResponse), args.Error(1)
}

func (m *MockService) CheckInByQR(ctx context.Context, staffID int, qrCode string) (*CheckInResponse, error) {
	args := m.Called(ctx, staffID, qrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckInResponse), args.Error(1)
}

func (m *MockService) ListForMember(ctx context.Context, memberID, limit int) ([]Attendance, error) {
	args := m.Called(ctx, memberID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Attendance), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.SetupValidator()

	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", 7) })
	r.POST("/check-in", h.CheckIn)
	r.POST("/trainer/check-in", h.CheckInByQR)
	r.GET("/attendance", h.ListMine)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CheckIn_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"no subscription", ErrSubscriptionRequired, http.StatusForbidden, "subscription required"},
		{"limit reached", ErrDailyLimitReached, http.StatusConflict, "daily check-in limit reached"},
		{"inactive", ErrMemberInactive, http.StatusForbidden, "member account is not active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("CheckIn", mock.Anything, 7).Return(nil, tt.err)

			w := post(setupRouter(svc), "/check-in", "")

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
}

func TestHandler_CheckIn(t *testing.T) {
	svc := new(MockService)
	svc.On("CheckIn", mock.Anything, 7).Return(&CheckInResponse{
		Attendance:    &Attendance{ID: 1, MemberID: 7, CheckInDate: "2024-03-13", Method: MethodSelf},
		CheckInsToday: 1,
	}, nil)

	w := post(setupRouter(svc), "/check-in", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"checkInDate":"2024-03-13"`)
}

func TestHandler_CheckInByQR(t *testing.T) {
	svc := new(MockService)
	svc.On("CheckInByQR", mock.Anything, 7, "qr-abc").Return(nil, user.ErrMemberNotFound)

	w := post(setupRouter(svc), "/trainer/check-in", `{"qrCode":"qr-abc"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CheckInByQR_MissingCode(t *testing.T) {
	svc := new(MockService)

	w := post(setupRouter(svc), "/trainer/check-in", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CheckInByQR", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ListMine_CapsLimit(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForMember", mock.Anything, 7, 100).Return([]Attendance{}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance?limit=500", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
