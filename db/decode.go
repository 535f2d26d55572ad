package db

import (
	"reflect"

	"github.com/pkg/errors"
)

// decodeInto fills the slice pointed to by out with n elements, each decoded
// by decode into a pointer to a fresh element.
func decodeInto(out any, n int, decode func(i int, dst any) error) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.Errorf("decode target must be a pointer to a slice, got %T", out)
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()
	res := reflect.MakeSlice(slice.Type(), 0, n)
	for i := 0; i < n; i++ {
		elem := reflect.New(elemType)
		if err := decode(i, elem.Interface()); err != nil {
			return err
		}
		res = reflect.Append(res, elem.Elem())
	}
	slice.Set(res)
	return nil
}
