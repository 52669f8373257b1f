package redirect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type catalogController struct {
	Archive func()
	helper  func()
}

func (c *catalogController) ListAll() {}

type actionRef string

func (a actionRef) String() string { return "ref:" + string(a) }

type Books struct{}

type BookStoreController struct{}

// usersController and accountsController both define Show.
type usersController struct{}

func (u *usersController) Show() {}

type accountsController struct{}

func (a accountsController) Show() {}

func TestActionName(t *testing.T) {
	catalog := &catalogController{Archive: func() {}}
	orders := &OrdersController{}

	tests := []struct {
		name   string
		ref    any
		target any
		want   string
		ok     bool
	}{
		{name: "nil", ref: nil, target: catalog, want: "", ok: false},
		{name: "string", ref: "show", target: nil, want: "show", ok: true},
		{name: "stringer", ref: actionRef("x"), target: nil, want: "ref:x", ok: true},
		{name: "bytes", ref: []byte("edit"), target: nil, want: "edit", ok: true},
		{name: "method value", ref: catalog.ListAll, target: catalog, want: "listAll", ok: true},
		{name: "method on value target", ref: orders.Show, target: OrdersController{}, want: "show", ok: true},
		{name: "func field", ref: catalog.Archive, target: catalog, want: "archive", ok: true},
		{name: "method of another type", ref: orders.Show, target: catalog, want: "", ok: false},
		{name: "same method name on another type", ref: (&usersController{}).Show, target: &accountsController{}, want: "", ok: false},
		{name: "value receiver", ref: accountsController{}.Show, target: &accountsController{}, want: "show", ok: true},
		{name: "pointer receiver", ref: (&usersController{}).Show, target: &usersController{}, want: "show", ok: true},
		{name: "plain func", ref: strings.ToUpper, target: catalog, want: "", ok: false},
		{name: "func without target", ref: catalog.ListAll, target: nil, want: "", ok: false},
		{name: "unsupported type", ref: 42, target: catalog, want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ActionName(tt.ref, tt.target)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionName_UnexportedFuncFieldIgnored(t *testing.T) {
	fn := func() {}
	c := &catalogController{helper: fn}

	name, ok := ActionName(fn, c)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestLogicalControllerName(t *testing.T) {
	assert.Equal(t, "orders", LogicalControllerName(&OrdersController{}))
	assert.Equal(t, "catalog", LogicalControllerName(catalogController{}))
	assert.Equal(t, "bookStore", LogicalControllerName(&BookStoreController{}))
	assert.Equal(t, "books", LogicalControllerName(Books{}))
	assert.Equal(t, "", LogicalControllerName(nil))
}
