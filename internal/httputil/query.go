package httputil

import (
	"net/url"
	"reflect"
)

// GetURLFields checks which query parameters are set and which of those can
// be used directly in a gorm query.
//
// queryFields contains all field names that can be used directly in a gorm
// Where statement as argument to specify the fields filtered on. As gorm uses
// interface{} as type for the Where statement, we cannot use a []string here.
//
// setFields contains the names of all fields set in the query parameters,
// including the ones that need explicit handling. This allows filtering for
// zero values without declaring pointer fields on the filter struct.
func GetURLFields(u *url.URL, filter any) ([]any, []string) {
	var queryFields []any
	var setFields []string

	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i).Name
		param := val.Type().Field(i).Tag.Get("form")

		// filterField is a struct tag that specifies whether the field is
		// used to filter resources directly (the default) or is a meta field
		// processed by explicit logic, e.g. "search" or "limit".
		filterField := val.Type().Field(i).Tag.Get("filterField")

		if u.Query().Has(param) {
			setFields = append(setFields, field)

			if filterField != "false" {
				queryFields = append(queryFields, field)
			}
		}
	}

	return queryFields, setFields
}

// fields returns the names of all fields of the resource whose tag appears
// as a key in the parsed body.
func fields(body map[string]any, resource any, tag string) []any {
	var set []any

	val := reflect.Indirect(reflect.ValueOf(resource))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i).Name
		param := val.Type().Field(i).Tag.Get(tag)

		if _, ok := body[param]; ok {
			set = append(set, field)
		}
	}

	return set
}
