package redirect

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/stretchr/testify/mock"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/mapping"
)

type fakeTransport struct {
	appURI     string
	controller string
	charset    string
	committed  bool
	sendErr    error
	sessionID  string
	sent       []string
}

func (f *fakeTransport) ApplicationURI() string    { return f.appURI }
func (f *fakeTransport) ControllerName() string    { return f.controller }
func (f *fakeTransport) CharacterEncoding() string { return f.charset }
func (f *fakeTransport) Committed() bool           { return f.committed }

func (f *fakeTransport) EncodeRedirectURL(location string) string {
	if f.sessionID == "" {
		return location
	}
	return location + ";jsessionid=" + f.sessionID
}

func (f *fakeTransport) SendRedirect(location string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, location)
	f.committed = true
	return nil
}

// MockHolder implements mapping.Holder for testing. Params are recorded as a
// snapshot because the redirector removes the injected id after the lookup.
type MockHolder struct {
	mock.Mock
}

func (m *MockHolder) ReverseMapping(controller, action string, params map[string]any) (mapping.URLCreator, bool) {
	snapshot := make(map[string]any, len(params))
	for k, v := range params {
		snapshot[k] = v
	}

	args := m.Called(controller, action, snapshot)
	creator, _ := args.Get(0).(mapping.URLCreator)
	return creator, args.Bool(1)
}

// expectRoute maps controller.action to a path template
func (m *MockHolder) expectRoute(controller, action, path string) *mock.Call {
	return m.On("ReverseMapping", controller, action, mock.Anything).Return(&fakeCreator{path: path}, true)
}

// expectNoOtherRoutes makes every remaining lookup a miss
func (m *MockHolder) expectNoOtherRoutes() *mock.Call {
	return m.On("ReverseMapping", mock.Anything, mock.Anything, mock.Anything).Return(nil, false)
}

func (m *MockHolder) lookups() []map[string]any {
	out := make([]map[string]any, 0, len(m.Calls))
	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(2).(map[string]any))
	}
	return out
}

type fakeCreator struct {
	path string
	fail bool
}

func (c *fakeCreator) CreateURL(controller, action string, params map[string]any, charset, fragment string) (string, error) {
	if c.fail {
		return "", errors.New("bad template")
	}

	path := c.path
	query := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fmt.Sprint(params[k])
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, v)
			continue
		}
		query.Set(k, v)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if fragment != "" {
		path += "#" + fragment
	}
	return path, nil
}

// MockListeners hands out listeners that share one mock, so Calls keeps the
// order in which they ran.
type MockListeners struct {
	mock.Mock
}

func (m *MockListeners) named(name string) Listener {
	return ListenerFunc(func(_ context.Context, location string) error {
		return m.MethodCalled("ResponseRedirected", name, location).Error(0)
	})
}

func (m *MockListeners) order() []string {
	out := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		out = append(out, call.Arguments.String(0)+" "+call.Arguments.String(1))
	}
	return out
}

func newTestRedirector(holder mapping.Holder, opts Options) *Redirector {
	return New(holder, opts, logging.NewNopLogger())
}

func newTestContext(t *fakeTransport) *RequestContext {
	return NewRequestContext(context.Background(), t)
}
