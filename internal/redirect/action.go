package redirect

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ActionName normalizes an action reference to an action name.
//
// Strings are returned as they are and fmt.Stringer values through String.
// A func value is looked up on target: first among its exported func-typed
// struct fields, then among its methods (a method value such as c.Show).
// Either way the member name is returned in lower camel case.
func ActionName(ref any, target any) (string, bool) {
	switch v := ref.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case []byte:
		return string(v), true
	}

	fn := reflect.ValueOf(ref)
	if fn.Kind() != reflect.Func || fn.IsNil() || target == nil {
		return "", false
	}

	if name, ok := funcFieldName(fn, target); ok {
		return name, true
	}
	return methodName(fn, target)
}

func funcFieldName(fn reflect.Value, target any) (string, bool) {
	tv := reflect.ValueOf(target)
	for tv.Kind() == reflect.Pointer || tv.Kind() == reflect.Interface {
		if tv.IsNil() {
			return "", false
		}
		tv = tv.Elem()
	}
	if tv.Kind() != reflect.Struct {
		return "", false
	}

	tt := tv.Type()
	for i := 0; i < tt.NumField(); i++ {
		sf := tt.Field(i)
		if !sf.IsExported() || sf.Type.Kind() != reflect.Func {
			continue
		}
		fv := tv.Field(i)
		if fv.IsNil() || fv.Type() != fn.Type() {
			continue
		}
		if fv.Pointer() == fn.Pointer() {
			return lowerFirst(sf.Name), true
		}
	}
	return "", false
}

// methodName maps a method value back to its method through the runtime
// symbol, e.g. "app.(*OrdersController).Show-fm". The receiver named in the
// symbol must be target's own type.
func methodName(fn reflect.Value, target any) (string, bool) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", false
	}

	symbol, isMethodValue := strings.CutSuffix(f.Name(), "-fm")
	if !isMethodValue {
		return "", false
	}
	i := strings.LastIndex(symbol, ".")
	if i < 0 || i == len(symbol)-1 {
		return "", false
	}
	receiver, name := symbol[:i], symbol[i+1:]

	tt := reflect.TypeOf(target)
	for tt.Kind() == reflect.Pointer {
		tt = tt.Elem()
	}
	if tt.Name() == "" {
		return "", false
	}
	qualified := tt.PkgPath() + "." + tt.Name()
	if receiver != qualified && receiver != tt.PkgPath()+".(*"+tt.Name()+")" {
		return "", false
	}

	if _, ok := reflect.PointerTo(tt).MethodByName(name); !ok {
		return "", false
	}
	return lowerFirst(name), true
}

// LogicalControllerName derives a controller name from the target's type:
// *OrdersController becomes "orders".
func LogicalControllerName(target any) string {
	if target == nil {
		return ""
	}
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := strings.TrimSuffix(t.Name(), "Controller")
	return lowerFirst(name)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
