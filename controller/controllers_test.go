package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"consegne/model"
	"consegne/push"
	"consegne/service"
	"consegne/service/dto"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var (
	adminUser  = model.User{Id: "usr-admin", Name: "Admin", Role: model.RoleAdmin}
	driverUser = model.User{Id: "usr-drv", Name: "Driver", Role: model.RoleDriver}
)

//-----------mocks--------

type mockAuthService struct {
	loginErr error
	authErr  error
	user     model.User
}

func (m mockAuthService) Login(mail, password string) (dto.LoginResponse, error) {
	return dto.LoginResponse{Token: "tok", User: m.user}, m.loginErr
}

func (m mockAuthService) Authenticate(token string) (model.User, error) {
	return m.user, m.authErr
}

func (m mockAuthService) Logout(token string) error { return nil }

func (m mockAuthService) EnsureAdmin(mail, name, password string) error { return nil }

func (m mockAuthService) GetAllUsers() ([]model.User, error) {
	return []model.User{m.user}, nil
}

func (m mockAuthService) CreateUser(req dto.UserUpsert, actor model.User) (dto.Id, error) {
	return dto.Id{Id: "usr-new"}, nil
}

func (m mockAuthService) UpdateUser(id string, req dto.UserUpsert, actor model.User) error {
	return nil
}

func (m mockAuthService) DeleteUser(id string, actor model.User) error { return nil }

type mockShipmentService struct {
	err      error
	shipment model.Shipment
}

func (m mockShipmentService) Create(req dto.ShipmentCreate, requester model.UserRef) (dto.Id, error) {
	return dto.Id{Id: "ship-1"}, m.err
}

func (m mockShipmentService) GetOne(id string) (model.Shipment, error) {
	return m.shipment, m.err
}

func (m mockShipmentService) GetAll() ([]model.Shipment, error) {
	return []model.Shipment{m.shipment}, m.err
}

func (m mockShipmentService) Update(id string, req dto.ShipmentUpdate, actor model.User) (model.Shipment, error) {
	return m.shipment, m.err
}

func (m mockShipmentService) Transition(id, newStatus string, actor model.User) (model.Shipment, error) {
	return m.shipment, m.err
}

func (m mockShipmentService) AssignDriver(id string, req dto.AssignDriver, actor model.User) (model.Shipment, error) {
	return m.shipment, m.err
}

func (m mockShipmentService) Delete(id string, actor model.User) error { return m.err }

type mockMessageService struct {
	err error
}

func (m mockMessageService) Post(sender model.UserRef, req dto.MessagePost) (model.Message, error) {
	return model.Message{Id: "m1", Sender: sender, Text: req.Text}, m.err
}

func (m mockMessageService) GetAll() ([]model.Message, error) {
	return []model.Message{{Id: "m1"}}, m.err
}

func (m mockMessageService) GetAllByShipment(shipmentId string) ([]model.Message, error) {
	return []model.Message{}, m.err
}

type mockPushService struct {
	err error
}

func (m mockPushService) Subscribe(req dto.SubscribeRequest) (model.Subscription, error) {
	return model.Subscription{Endpoint: req.Endpoint}, m.err
}

func (m mockPushService) Associate(req dto.AssociateRequest) error { return m.err }

func (m mockPushService) List() (dto.SubscriptionList, error) {
	return dto.SubscriptionList{}, m.err
}

func (m mockPushService) PublicKey() string { return "public-key" }

func (m mockPushService) NotifyTest(payload push.Payload) ([]push.Result, error) {
	return []push.Result{}, m.err
}

func (m mockPushService) SendToUser(userId string, payload push.Payload) ([]push.Result, error) {
	return []push.Result{}, m.err
}

func (m mockPushService) LogDiag(payload map[string]interface{}) error { return m.err }

func newContext(method, target, body string, user model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user.Id != "" {
		c.Set(userKey, user)
	}
	return c, rec
}

//-----------handlers--------

func TestGetLoginFunc(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/login", `{"mail":"a@b.c","password":"pw"}`, model.User{})

	err := GetLoginFunc(mockAuthService{user: driverUser})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"token":"tok"`)
}

func TestGetLoginFuncRejected(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/login", `{"mail":"a@b.c","password":"pw"}`, model.User{})

	err := GetLoginFunc(mockAuthService{loginErr: service.NewNotAuthorizedError("nope")})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetCreateShipmentFunc(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/shipments", `{"company":"Acme","address":"Via Roma 1"}`, driverUser)

	err := GetCreateShipmentFunc(mockShipmentService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ship-1")
}

func TestGetCreateShipmentFuncInvalid(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/shipments", `{}`, driverUser)

	err := GetCreateShipmentFunc(mockShipmentService{err: service.NewInvalidPayloadError("bad")})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetChangeStatusFunc(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/shipments/s1/status", `{"status":"out_for_delivery"}`, driverUser)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	shipment := model.Shipment{Id: "s1", Status: model.StatusOutForDelivery}
	err := GetChangeStatusFunc(mockShipmentService{shipment: shipment})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), model.StatusOutForDelivery)
}

func TestGetChangeStatusFuncInvalidTransition(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/shipments/s1/status", `{"status":"pending"}`, driverUser)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	transitionErr := &service.InvalidTransitionErr{From: model.StatusDelivered, To: model.StatusPending}
	err := GetChangeStatusFunc(mockShipmentService{err: transitionErr})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid transition")
}

func TestGetShipmentFuncNotFound(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/shipments/missing", "", driverUser)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := GetShipmentFunc(mockShipmentService{err: errors.New("not found")})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDeleteShipmentFunc(t *testing.T) {
	c, rec := newContext(http.MethodDelete, "/api/shipments/s1", "", adminUser)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	err := GetDeleteShipmentFunc(mockShipmentService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetPostMessageFunc(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/messages", `{"text":"hello"}`, driverUser)

	err := GetPostMessageFunc(mockMessageService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), driverUser.Id)
}

func TestGetSubscribeFunc(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/push/subscribe", `{"endpoint":"https://push.example.com/ep-1"}`, model.User{})

	err := GetSubscribeFunc(mockPushService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetNotifyTestFuncNotConfigured(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/push/notify-test", `{}`, adminUser)

	err := GetNotifyTestFunc(mockPushService{err: push.ErrNotConfigured})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetSendToUserFuncNotConfigured(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/push/send-to-user", `{"userId":"usr-1","payload":{"title":"Hi"}}`, adminUser)

	err := GetSendToUserFunc(mockPushService{err: push.ErrNotConfigured})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetListSubscriptionsFuncAdminOnly(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/push/list", "", driverUser)

	err := GetListSubscriptionsFunc(mockPushService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/push/list", "", adminUser)
	err = GetListSubscriptionsFunc(mockPushService{})(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetPublicKeyFunc(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/push/public-key", "", model.User{})

	err := GetPublicKeyFunc(mockPushService{})(c)

	require.NoError(t, err)
	require.Contains(t, rec.Body.String(), "public-key")
}

//-----------middleware--------

func TestAuthMiddleware(t *testing.T) {
	var seen model.User
	next := func(c echo.Context) error {
		seen = currentUser(c)
		return c.NoContent(http.StatusOK)
	}

	c, rec := newContext(http.MethodGet, "/api/shipments", "", model.User{})
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer tok")
	err := AuthMiddleware(mockAuthService{user: driverUser})(next)(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, driverUser, seen)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	next := func(c echo.Context) error {
		t.Error("handler must not run")
		return nil
	}

	c, rec := newContext(http.MethodGet, "/api/shipments", "", model.User{})
	err := AuthMiddleware(mockAuthService{})(next)(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	next := func(c echo.Context) error {
		t.Error("handler must not run")
		return nil
	}

	c, rec := newContext(http.MethodGet, "/api/shipments", "", model.User{})
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer bogus")
	err := AuthMiddleware(mockAuthService{authErr: service.NewNotAuthorizedError("bad token")})(next)(c)

	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWriteErrUnknown(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "", model.User{})

	err := writeErr(c, errors.New("disk on fire"))

	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	//internal details never leak to clients
	require.Equal(t, "System malfunction. Please, try later", rec.Body.String())
}
