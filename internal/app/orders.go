package app

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/common/validation"
	"mvc-redirect/internal/controller"
	"mvc-redirect/internal/redirect"
)

// Order is the sample resource the orders controller manages
type Order struct {
	ID        int64     `json:"id"`
	Customer  string    `json:"customer"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type orderForm struct {
	Customer string `form:"customer" validate:"required,max=100"`
	Quantity int    `form:"quantity" validate:"min=1,max=1000"`
	Status   string `form:"status" validate:"omitempty,oneof=open closed"`
}

// OrderStore keeps orders in memory
type OrderStore struct {
	items  *gocache.Cache
	nextID atomic.Int64
}

func NewOrderStore() *OrderStore {
	return &OrderStore{items: gocache.New(gocache.NoExpiration, 0)}
}

func (s *OrderStore) Add(o Order) Order {
	o.ID = s.nextID.Add(1)
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	s.items.Set(strconv.FormatInt(o.ID, 10), o, gocache.NoExpiration)
	return o
}

func (s *OrderStore) Get(id int64) (Order, bool) {
	v, ok := s.items.Get(strconv.FormatInt(id, 10))
	if !ok {
		return Order{}, false
	}
	return v.(Order), true
}

// List returns all orders by id
func (s *OrderStore) List() []Order {
	items := s.items.Items()
	orders := make([]Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.Object.(Order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

// OrdersController is the sample controller. Its actions redirect with
// every form of redirect.Request.
type OrdersController struct {
	controller.Base
	Store *OrderStore
}

func NewOrdersController(redirector *redirect.Redirector, logger logging.Logger) *OrdersController {
	c := &OrdersController{Store: NewOrderStore()}
	c.Base = controller.NewBase(c, redirector, logger)
	return c
}

type indexResponse struct {
	Orders []Order `json:"orders"`
	Notice string  `json:"notice,omitempty"`
}

// Index lists all orders. A "missing" query parameter is reported as a
// notice; Show sets it when redirecting here.
func (c *OrdersController) Index(w http.ResponseWriter, r *http.Request) {
	resp := indexResponse{Orders: c.Store.List()}
	if missing := r.URL.Query().Get("missing"); missing != "" {
		resp.Notice = "order " + missing + " was not found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// Show renders one order, or redirects to Index when it does not exist
func (c *OrdersController) Show(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		if order, ok := c.Store.Get(id); ok {
			writeJSON(w, http.StatusOK, order)
			return
		}
	}

	errs := validation.NewValidator().Reject("id", "order "+raw+" does not exist")
	if err := c.Redirect(r, redirect.ByAction{
		Action: c.Index,
		Params: map[string]any{"missing": raw},
		Errors: errs,
	}); err != nil {
		c.RespondError(w, r, err)
	}
}

// Save creates an order from a form post and redirects to it
func (c *OrdersController) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}

	errs := validation.NewValidator()
	form := orderForm{
		Customer: strings.TrimSpace(r.PostForm.Get("customer")),
		Status:   r.PostForm.Get("status"),
	}
	if q := r.PostForm.Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			errs.Reject("quantity", "quantity must be a number")
		}
		form.Quantity = n
	}
	errs.ValidateStruct(form)

	if errs.HasErrors() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errorMessages(errs)})
		return
	}

	status := form.Status
	if status == "" {
		status = "open"
	}
	order := c.Store.Add(Order{Customer: form.Customer, Quantity: form.Quantity, Status: status})

	if err := c.Redirect(r, redirect.ByAction{Action: c.Show, ID: order.ID}); err != nil {
		c.RespondError(w, r, err)
	}
}

// Legacy forwards old order URLs using the argument map form
func (c *OrdersController) Legacy(w http.ResponseWriter, r *http.Request) {
	err := c.RedirectArgs(r, map[string]any{
		redirect.ArgController: "orders",
		redirect.ArgAction:     "show",
		redirect.ArgID:         mux.Vars(r)["id"],
	})
	if err != nil {
		c.RespondError(w, r, err)
	}
}

// Home sends the application root to the order list
func (c *OrdersController) Home(w http.ResponseWriter, r *http.Request) {
	if err := c.Redirect(r, redirect.ByURI{URI: "/orders"}); err != nil {
		c.RespondError(w, r, err)
	}
}

func errorMessages(v *validation.Validator) []string {
	errs := v.Errors()
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
