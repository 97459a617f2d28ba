package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/umrah-booking/internal/config"
    "github.com/iliyamo/umrah-booking/internal/middleware"
    "github.com/iliyamo/umrah-booking/internal/model"
    "github.com/iliyamo/umrah-booking/internal/repository"
    "github.com/iliyamo/umrah-booking/internal/service"
)

// fakeBookings answers from a fixed booking and returns err when set.
type fakeBookings struct {
    booking model.Booking
    err     error
    gotIn   model.PaymentInput
}

func (f *fakeBookings) RecordPayment(_ context.Context, id string, in model.PaymentInput) (*model.Booking, *model.Payment, error) {
    f.gotIn = in
    if f.err != nil {
        return nil, nil, f.err
    }
    b := f.booking
    return &b, &model.Payment{ID: "p1", BookingID: id, Amount: in.Amount}, nil
}
func (f *fakeBookings) MarkFullyPaid(context.Context, string) (*model.Booking, error) {
    return &f.booking, f.err
}
func (f *fakeBookings) ListPayments(context.Context, string) ([]model.Payment, error) {
    return []model.Payment{}, f.err
}
func (f *fakeBookings) CreateBooking(context.Context, model.BookingInput) (*model.Booking, error) {
    return &f.booking, f.err
}
func (f *fakeBookings) UpdateBooking(context.Context, string, model.BookingInput) (*model.Booking, error) {
    return &f.booking, f.err
}
func (f *fakeBookings) DeleteBooking(context.Context, string) error { return f.err }
func (f *fakeBookings) ListBookings(context.Context) ([]model.Booking, error) {
    return []model.Booking{f.booking, {ID: "b2", PaymentStatus: model.PaymentCompleted}}, f.err
}
func (f *fakeBookings) GetBooking(context.Context, string) (*model.Booking, error) {
    return &f.booking, f.err
}
func (f *fakeBookings) ListForUser(context.Context, string) ([]model.Booking, error) {
    return []model.Booking{f.booking}, f.err
}
func (f *fakeBookings) GetForUser(_ context.Context, id, userID string) (*model.Booking, error) {
    if f.booking.UserID == nil || *f.booking.UserID != userID {
        return nil, &service.NotFoundError{Resource: "booking"}
    }
    return &f.booking, f.err
}
func (f *fakeBookings) Stats(context.Context) (model.DashboardStats, error) {
    return model.DashboardStats{Bookings: 1}, f.err
}

func do(h echo.HandlerFunc, method, target, body string, params map[string]string, userID string) *httptest.ResponseRecorder {
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    for k, v := range params {
        c.SetParamNames(k)
        c.SetParamValues(v)
    }
    if userID != "" {
        c.Set(middleware.CtxUserID, userID)
        c.Set(middleware.CtxRole, model.RoleUser)
    }
    _ = h(c)
    return rec
}

func TestRecordPaymentHandler(t *testing.T) {
    f := &fakeBookings{booking: model.Booking{ID: "bk", PaymentPercentage: 10, PaymentStatus: model.PaymentPartial}}
    h := NewAdminBookingHandler(f)

    rec := do(h.RecordPayment, http.MethodPost, "/v1/admin/bookings/bk/payments", `{"amount":"1000","payment_mode":"bank"}`, map[string]string{"id": "bk"}, "")
    if rec.Code != http.StatusCreated {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
    if !f.gotIn.Amount.Equal(decimal.NewFromInt(1000)) || f.gotIn.PaymentMode != "bank" {
        t.Fatalf("input not bound: %+v", f.gotIn)
    }
    var out struct {
        Booking model.Booking `json:"booking"`
        Payment model.Payment `json:"payment"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if out.Booking.PaymentPercentage != 10 || out.Payment.ID != "p1" {
        t.Fatalf("unexpected body %s", rec.Body.String())
    }

    if rec := do(h.RecordPayment, http.MethodPost, "/", `{"amount":`, nil, ""); rec.Code != http.StatusBadRequest {
        t.Fatalf("malformed body: %d", rec.Code)
    }
}

func TestErrorMapping(t *testing.T) {
    cases := []struct {
        err  error
        want int
    }{
        {&service.ValidationError{Field: "amount", Msg: "amount must be greater than zero"}, http.StatusBadRequest},
        {&service.NotFoundError{Resource: "booking"}, http.StatusNotFound},
        {&service.ConflictError{Msg: "slug already in use"}, http.StatusConflict},
        {&service.StoreError{Op: "update booking", Err: errors.New("deadlock")}, http.StatusInternalServerError},
        {repository.ErrForbidden, http.StatusForbidden},
    }
    for _, tc := range cases {
        h := NewAdminBookingHandler(&fakeBookings{err: tc.err})
        rec := do(h.MarkPaid, http.MethodPost, "/", "", map[string]string{"id": "bk"}, "")
        if rec.Code != tc.want {
            t.Fatalf("%v: status %d, want %d", tc.err, rec.Code, tc.want)
        }
        if tc.want == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "deadlock") {
            t.Fatalf("internal error leaked: %s", rec.Body.String())
        }
    }
}

func TestAdminListFiltersByStatus(t *testing.T) {
    h := NewAdminBookingHandler(&fakeBookings{booking: model.Booking{ID: "b1", PaymentStatus: model.PaymentPending}})
    rec := do(h.List, http.MethodGet, "/v1/admin/bookings?status=completed", "", nil, "")
    var out struct {
        Items []model.Booking `json:"items"`
        Total int             `json:"total"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if out.Total != 1 || out.Items[0].ID != "b2" {
        t.Fatalf("unexpected list %s", rec.Body.String())
    }
}

func TestCustomerBookingOwnership(t *testing.T) {
    owner := "u1"
    h := NewCustomerBookingHandler(&fakeBookings{booking: model.Booking{ID: "bk", UserID: &owner}}, nil)

    if rec := do(h.Get, http.MethodGet, "/", "", map[string]string{"id": "bk"}, "u1"); rec.Code != http.StatusOK {
        t.Fatalf("owner got %d", rec.Code)
    }
    if rec := do(h.Get, http.MethodGet, "/", "", map[string]string{"id": "bk"}, "u2"); rec.Code != http.StatusNotFound {
        t.Fatalf("other account got %d", rec.Code)
    }
    if rec := do(h.List, http.MethodGet, "/", "", nil, ""); rec.Code != http.StatusUnauthorized {
        t.Fatalf("anonymous got %d", rec.Code)
    }
}

type fakeCatalog struct {
    filter model.PackageFilter
    saved  model.PackageInput
}

func (f *fakeCatalog) ListPublished(_ context.Context, fl model.PackageFilter) (model.PackagePage, error) {
    f.filter = fl
    return model.PackagePage{Items: []model.PackageView{}, Page: 1, PageSize: 12}, nil
}
func (f *fakeCatalog) GetBySlugOrID(_ context.Context, key string) (*model.PackageDetail, error) {
    if key != "gold" {
        return nil, &service.NotFoundError{Resource: "package"}
    }
    return &model.PackageDetail{PackageView: model.NewPackageView(model.Package{ID: "p1", Slug: "gold"})}, nil
}
func (f *fakeCatalog) ListAll(context.Context) ([]model.PackageView, error) { return nil, nil }
func (f *fakeCatalog) GetAny(context.Context, string) (*model.Package, error) {
    return &model.Package{ID: "p1"}, nil
}
func (f *fakeCatalog) SavePackage(_ context.Context, id string, in model.PackageInput) (*model.Package, error) {
    f.saved = in
    p := in.Package
    p.ID = "p-new"
    return &p, nil
}
func (f *fakeCatalog) DeletePackage(context.Context, string) error { return nil }

func TestListPackagesParsesFilter(t *testing.T) {
    f := &fakeCatalog{}
    h := &PublicCatalogHandler{Catalog: f}
    rec := do(h.ListPackages, http.MethodGet, "/v1/packages?q=gold&price=100K-200K&star=5star&flight=direct&featured=true&page=2&page_size=6", "", nil, "")
    if rec.Code != http.StatusOK {
        t.Fatalf("status %d", rec.Code)
    }
    want := model.PackageFilter{Query: "gold", PriceRange: "100k-200k", Star: "5star", Flight: "direct", Featured: true, Page: 2, PageSize: 6}
    if f.filter != want {
        t.Fatalf("filter = %+v", f.filter)
    }
    if rec := do(h.GetPackage, http.MethodGet, "/", "", map[string]string{"key": "silver"}, ""); rec.Code != http.StatusNotFound {
        t.Fatalf("missing package: %d", rec.Code)
    }
}

func TestAdminPackageCreate(t *testing.T) {
    f := &fakeCatalog{}
    h := &AdminPackageHandler{Catalog: f}
    rec := do(h.Create, http.MethodPost, "/", `{"title":"Gold","duration":"10 days","price":"150000","included":["Visa"]}`, nil, "")
    if rec.Code != http.StatusCreated {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
    if f.saved.Title != "Gold" || len(f.saved.Included) != 1 || !f.saved.Price.Equal(decimal.NewFromInt(150000)) {
        t.Fatalf("input not bound: %+v", f.saved)
    }
    if !strings.Contains(rec.Body.String(), `"seats_left"`) {
        t.Fatalf("view fields missing: %s", rec.Body.String())
    }
}

type fakeCollection[T any] struct {
    created *T
    err     error
}

func (f *fakeCollection[T]) List(context.Context, bool) ([]T, error)               { return []T{}, f.err }
func (f *fakeCollection[T]) Find(context.Context, repository.Filter) ([]T, error) { return []T{}, f.err }
func (f *fakeCollection[T]) Get(context.Context, string) (*T, error)               { return new(T), f.err }
func (f *fakeCollection[T]) GetBySlug(context.Context, string, bool) (*T, error)   { return new(T), f.err }
func (f *fakeCollection[T]) Create(_ context.Context, rec *T) (*T, error) {
    f.created = rec
    return rec, f.err
}
func (f *fakeCollection[T]) Update(_ context.Context, _ string, rec *T) (*T, error) { return rec, f.err }
func (f *fakeCollection[T]) Delete(context.Context, string) error                 { return f.err }

func TestPackageFAQPathWins(t *testing.T) {
    fc := &fakeCollection[model.PackageFAQ]{}
    h := &PackageFAQHandler{NewContentHandler[model.PackageFAQ](fc)}
    rec := do(h.CreateForPackage, http.MethodPost, "/", `{"package_id":"other","question":"Q","answer":"A"}`, map[string]string{"id": "p1"}, "")
    if rec.Code != http.StatusCreated || fc.created.PackageID != "p1" {
        t.Fatalf("status %d, created %+v", rec.Code, fc.created)
    }
}

func TestContentNotFound(t *testing.T) {
    h := NewContentHandler[model.Page](&fakeCollection[model.Page]{err: &service.NotFoundError{Resource: "page"}})
    rec := do(h.PublicBySlug, http.MethodGet, "/", "", map[string]string{"slug": "nope"}, "")
    if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "page not found") {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
}

type fakeSettings struct{ values map[string]string }

func (f *fakeSettings) Settings(context.Context) (map[string]string, error) { return f.values, nil }
func (f *fakeSettings) SaveSettings(_ context.Context, v map[string]string) error {
    for k, val := range v {
        f.values[k] = val
    }
    return nil
}

func TestSettingsPut(t *testing.T) {
    h := &SettingsHandler{Svc: &fakeSettings{values: map[string]string{}}}
    rec := do(h.Put, http.MethodPut, "/", `{"header_phone":"+91 98765 43210"}`, nil, "")
    if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "header_phone") {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    cfg := config.Config{JWTSecret: "s", AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4}
    return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewProfileRepo(db), repository.NewTokenRepo(db)), mock
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
    h, mock := newAuthHandler(t)
    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO users").
        WithArgs(sqlmock.AnyArg(), "new@x.com", sqlmock.AnyArg(), model.RoleUser).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO profiles").
        WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "new@x.com", "Sara", nil).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

    rec := do(h.Register, http.MethodPost, "/", `{"email":" New@X.com ","password":"longenough","full_name":"Sara","role":"admin"}`, nil, "")
    if rec.Code != http.StatusCreated {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
    var out authResp
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if out.User.Role != model.RoleUser || out.User.Email != "new@x.com" || out.Access.Token == "" {
        t.Fatalf("unexpected response %+v", out)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("expectations: %v", err)
    }
}

func TestRegisterRollsBackOnProfileFailure(t *testing.T) {
    h, mock := newAuthHandler(t)
    mock.ExpectBegin()
    mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO profiles").WillReturnError(errors.New("boom"))
    mock.ExpectRollback()

    rec := do(h.Register, http.MethodPost, "/", `{"email":"a@x.com","password":"longenough"}`, nil, "")
    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("status %d", rec.Code)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("expectations: %v", err)
    }
}

func TestRegisterValidation(t *testing.T) {
    h, _ := newAuthHandler(t)
    for _, body := range []string{`{"email":"","password":"longenough"}`, `{"email":"bad","password":"longenough"}`, `{"email":"a@x.com","password":"short"}`} {
        if rec := do(h.Register, http.MethodPost, "/", body, nil, ""); rec.Code != http.StatusBadRequest {
            t.Fatalf("%s: status %d", body, rec.Code)
        }
    }
}

func TestLoginUnknownEmail(t *testing.T) {
    h, mock := newAuthHandler(t)
    mock.ExpectQuery("SELECT .* FROM users WHERE email").WillReturnRows(sqlmock.NewRows([]string{"id"}))
    rec := do(h.Login, http.MethodPost, "/", `{"email":"ghost@x.com","password":"whatever1"}`, nil, "")
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("status %d", rec.Code)
    }
}

func TestHealth(t *testing.T) {
    h := &HealthHandler{}
    if rec := do(h.Health, http.MethodGet, "/healthz", "", nil, ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
        t.Fatalf("shallow: %d %q", rec.Code, rec.Body.String())
    }
    rec := do(h.Health, http.MethodGet, "/healthz?deep=1", "", nil, "")
    if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"db":"down"`) {
        t.Fatalf("deep: %d %s", rec.Code, rec.Body.String())
    }
}

type fakePackageDetails map[string]model.PackageDetail

func (f fakePackageDetails) PackageDetail(_ context.Context, id string) (*model.PackageDetail, error) {
    d, ok := f[id]
    if !ok {
        return nil, &service.NotFoundError{Resource: "package"}
    }
    return &d, nil
}

func TestCustomerBookingIncludesPackage(t *testing.T) {
    owner, pkgID := "u1", "p1"
    details := fakePackageDetails{"p1": {
        PackageView:  model.NewPackageView(model.Package{ID: "p1", Title: "Gold", Published: false}),
        FAQs:         []model.PackageFAQ{{ID: "f1", PackageID: "p1", Question: "Visa?", Answer: "Included"}},
        Testimonials: []model.Testimonial{{ID: "t1", Name: "Zaid", Text: "Great"}},
    }}
    h := NewCustomerBookingHandler(&fakeBookings{booking: model.Booking{ID: "bk", UserID: &owner, PackageID: &pkgID}}, details)

    rec := do(h.Get, http.MethodGet, "/", "", map[string]string{"id": "bk"}, "u1")
    if rec.Code != http.StatusOK {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
    var out struct {
        Package *model.PackageDetail `json:"package"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if out.Package == nil || out.Package.ID != "p1" || len(out.Package.FAQs) != 1 || len(out.Package.Testimonials) != 1 {
        t.Fatalf("package bundle missing: %s", rec.Body.String())
    }

    // a deleted package leaves the booking readable
    gone := "p-deleted"
    h = NewCustomerBookingHandler(&fakeBookings{booking: model.Booking{ID: "bk", UserID: &owner, PackageID: &gone}}, details)
    rec = do(h.Get, http.MethodGet, "/", "", map[string]string{"id": "bk"}, "u1")
    if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"package":null`) {
        t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
    }
}
